package workflow

// Пересчёт агрегированных статусов: статус родительского элемента и проекта
// никогда не задаётся пользователем напрямую, он выводится из статусов
// потомков. Снимок элементов один раз разворачивается в лес (арена узлов с
// индексами детей), обход снизу вверх гарантирует, что вложенные родители
// пересчитаны раньше своих собственных родителей.

// Node - снимок одного рабочего элемента для пересчёта.
type Node struct {
	ID          uint64
	ParentID    uint64 // 0 - корневой элемент
	ProjectID   uint64 // 0 - самостоятельное действие
	Status      Status
	UseWorkflow bool
	Approved    bool // approval_status == approved
}

// Change - вычисленное новое значение агрегированного статуса.
type Change struct {
	ItemID    uint64 // 0, если меняется статус проекта
	ProjectID uint64 // 0, если меняется статус элемента
	NewStatus Status
}

type forest struct {
	nodes    []Node
	index    map[uint64]int // id -> позиция в nodes
	children map[uint64][]int
}

func buildForest(items []Node) *forest {
	f := &forest{
		nodes:    make([]Node, len(items)),
		index:    make(map[uint64]int, len(items)),
		children: make(map[uint64][]int, len(items)),
	}
	copy(f.nodes, items)
	for i, n := range f.nodes {
		f.index[n.ID] = i
	}
	for i, n := range f.nodes {
		if n.ParentID != 0 {
			if _, ok := f.index[n.ParentID]; ok {
				f.children[n.ParentID] = append(f.children[n.ParentID], i)
			}
		}
	}
	return f
}

// descendants собирает индексы всего поддерева элемента (без самого элемента).
func (f *forest) descendants(id uint64, out []int) []int {
	for _, ci := range f.children[id] {
		out = append(out, ci)
		out = f.descendants(f.nodes[ci].ID, out)
	}
	return out
}

// qualifiedFinished: завершение учитывается только если для
// workflow-элемента оно подтверждено согласующим.
func qualifiedFinished(n Node) bool {
	if n.Status != Finished {
		return false
	}
	return !n.UseWorkflow || n.Approved
}

func isActive(n Node) bool {
	return n.Status == InProgress || qualifiedFinished(n)
}

// deriveStatus - правило агрегации из спецификации поведения:
// все потомки завершены -> "خاتمه یافته"; хотя бы один активен ->
// "در حال اجرا"; иначе "شروع نشده".
func deriveStatus(nodes []Node) Status {
	allFinished := true
	anyActive := false
	for _, n := range nodes {
		if !qualifiedFinished(n) {
			allFinished = false
		}
		if isActive(n) {
			anyActive = true
		}
	}
	if allFinished {
		return Finished
	}
	if anyActive {
		return InProgress
	}
	return NotStarted
}

// Recompute возвращает список изменений агрегированных статусов для полного
// снимка элементов и идентификаторов проектов. Элементы без потомков не
// трогаются. Родитель, ожидающий согласования, пропускается: его статус
// снова станет выводимым после решения согласующего.
func Recompute(items []Node, projectIDs []uint64, projectStatuses map[uint64]Status) []Change {
	f := buildForest(items)
	var changes []Change

	// Снизу вверх: пересчитываем родителей в порядке "сначала самые
	// глубокие", чтобы статус ребёнка-родителя был свежим к моменту
	// пересчёта его родителя.
	order := postOrder(f)
	for _, i := range order {
		n := f.nodes[i]
		descIdx := f.descendants(n.ID, nil)
		if len(descIdx) == 0 {
			continue
		}
		if n.Status == PendingApproval {
			continue
		}
		desc := make([]Node, 0, len(descIdx))
		for _, di := range descIdx {
			desc = append(desc, f.nodes[di])
		}
		newStatus := deriveStatus(desc)
		if newStatus != n.Status {
			f.nodes[i].Status = newStatus
			changes = append(changes, Change{ItemID: n.ID, NewStatus: newStatus})
		}
	}

	// Проекты агрегируются по всем своим активностям (включая поддеревья
	// делегированных элементов).
	for _, pid := range projectIDs {
		var members []Node
		seen := make(map[uint64]struct{})
		for i, n := range f.nodes {
			if n.ProjectID != pid {
				continue
			}
			if _, ok := seen[n.ID]; !ok {
				seen[n.ID] = struct{}{}
				members = append(members, f.nodes[i])
			}
			for _, di := range f.descendants(n.ID, nil) {
				d := f.nodes[di]
				if _, ok := seen[d.ID]; !ok {
					seen[d.ID] = struct{}{}
					members = append(members, d)
				}
			}
		}
		if len(members) == 0 {
			continue
		}
		newStatus := deriveStatus(members)
		if cur, ok := projectStatuses[pid]; !ok || cur != newStatus {
			changes = append(changes, Change{ProjectID: pid, NewStatus: newStatus})
		}
	}

	return changes
}

// postOrder возвращает индексы узлов так, что любой потомок идёт раньше
// своего предка.
func postOrder(f *forest) []int {
	var order []int
	visited := make(map[uint64]bool, len(f.nodes))

	var walk func(i int)
	walk = func(i int) {
		id := f.nodes[i].ID
		if visited[id] {
			return
		}
		visited[id] = true
		for _, ci := range f.children[id] {
			walk(ci)
		}
		order = append(order, i)
	}

	for i, n := range f.nodes {
		if n.ParentID == 0 {
			walk(i)
		}
	}
	// Узлы с parent_id, указывающим на отсутствующий в снимке элемент,
	// обходим как корни.
	for i := range f.nodes {
		walk(i)
	}
	return order
}
