package llm

import "strings"

// Маркеры ответа анализатора. Грамматика зафиксирована контрактом слоя
// отображения и не подлежит изменению:
//
//	SECTION_HEADER:<заголовок>
//	LIST_ITEM:<приоритет>|<название>|<срок>|<роли>
const (
	sectionMarker  = "SECTION_HEADER:"
	listItemMarker = "LIST_ITEM:"
)

// AnalysisSection - секция разобранного ответа анализатора.
type AnalysisSection struct {
	Header string
	Items  []AnalysisItem
}

type AnalysisItem struct {
	Priority string
	Title    string
	EndDate  string
	Roles    string
}

// ParseAnalysis разбирает текст ответа модели по маркерной грамматике.
// Строки без маркеров игнорируются: модели случается добавлять
// пояснительный текст вокруг размеченных строк. Элементы до первого
// заголовка попадают в безымянную секцию.
func ParseAnalysis(text string) []AnalysisSection {
	var sections []AnalysisSection
	current := -1

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, sectionMarker):
			sections = append(sections, AnalysisSection{
				Header: strings.TrimSpace(strings.TrimPrefix(line, sectionMarker)),
			})
			current = len(sections) - 1

		case strings.HasPrefix(line, listItemMarker):
			item := parseListItem(strings.TrimPrefix(line, listItemMarker))
			if current < 0 {
				sections = append(sections, AnalysisSection{})
				current = 0
			}
			sections[current].Items = append(sections[current].Items, item)
		}
	}
	return sections
}

// parseListItem разбирает полезную нагрузку LIST_ITEM. Недостающие поля
// остаются пустыми, лишние разделители уходят в поле ролей.
func parseListItem(payload string) AnalysisItem {
	parts := strings.SplitN(payload, "|", 4)

	var item AnalysisItem
	if len(parts) > 0 {
		item.Priority = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		item.Title = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		item.EndDate = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		item.Roles = strings.TrimSpace(parts[3])
	}
	return item
}
