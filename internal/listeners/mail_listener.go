package listeners

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"project-system/internal/entities"
	"project-system/internal/events"
	"project-system/internal/repositories"
	"project-system/internal/services"
	"project-system/pkg/config"
	"project-system/pkg/constants"
	"project-system/pkg/eventbus"
)

type eventGroupKey struct {
	ItemID uint64
	TxID   string
}

type eventGroup struct {
	events []events.WorkItemHistoryCreatedEvent
	timer  *time.Timer
}

// MailListener превращает записи истории рабочих элементов в почтовые
// уведомления. События одной бизнес-операции собираются по tx_id и
// отправляются одним письмом.
type MailListener struct {
	notificationService services.NotificationServiceInterface
	userRepo            repositories.UserRepositoryInterface
	serverCfg           config.ServerConfig
	logger              *zap.Logger
	groups              map[eventGroupKey]*eventGroup
	groupsMu            sync.Mutex
}

func NewMailListener(
	notificationService services.NotificationServiceInterface,
	userRepo repositories.UserRepositoryInterface,
	serverCfg config.ServerConfig,
	logger *zap.Logger,
) *MailListener {
	return &MailListener{
		notificationService: notificationService,
		userRepo:            userRepo,
		serverCfg:           serverCfg,
		logger:              logger,
		groups:              make(map[eventGroupKey]*eventGroup),
	}
}

func (l *MailListener) Register(bus *eventbus.Bus) {
	bus.Subscribe("workitem.history.created", l.handleHistoryCreated)
	l.logger.Info("MailListener подписан на событие 'workitem.history.created'")
}

func (l *MailListener) handleHistoryCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.WorkItemHistoryCreatedEvent)
	if !ok || e.Item == nil {
		return nil
	}

	key := eventGroupKey{ItemID: e.Entry.ItemID, TxID: e.Entry.TxID.String()}

	l.groupsMu.Lock()
	defer l.groupsMu.Unlock()

	group, exists := l.groups[key]
	if !exists {
		group = &eventGroup{}
		l.groups[key] = group
		// Даём остальным записям той же операции две секунды догнать первую.
		group.timer = time.AfterFunc(2*time.Second, func() {
			l.sendGroupedMail(context.Background(), key)
		})
	}
	group.events = append(group.events, e)

	return nil
}

func (l *MailListener) sendGroupedMail(ctx context.Context, key eventGroupKey) {
	l.groupsMu.Lock()
	group, exists := l.groups[key]
	if !exists {
		l.groupsMu.Unlock()
		return
	}
	delete(l.groups, key)
	l.groupsMu.Unlock()

	if len(group.events) == 0 {
		return
	}

	sort.Slice(group.events, func(i, j int) bool {
		return group.events[i].Entry.CreatedAt.Before(group.events[j].Entry.CreatedAt)
	})

	first := group.events[0]
	item := first.Item
	actor := first.Actor

	recipientID := l.determineRecipient(group.events, item)
	if recipientID == 0 || (actor != nil && recipientID == actor.ID) {
		return
	}

	recipient, err := l.userRepo.FindUserByID(ctx, recipientID)
	if err != nil {
		l.logger.Error("MailListener: получатель не найден",
			zap.Uint64("userID", recipientID), zap.Error(err))
		return
	}

	subject, body := l.formatMail(group.events, item, actor)
	if body == "" {
		return
	}

	if err := l.notificationService.SendEmail(ctx, recipient.Email, subject, body); err != nil {
		l.logger.Error("MailListener: письмо не отправлено",
			zap.Uint64("userID", recipient.ID), zap.Error(err))
	}
}

// determineRecipient: запрос согласования адресуется согласующему,
// всё остальное (назначение, решение, правки) - исполнителю.
func (l *MailListener) determineRecipient(groupEvents []events.WorkItemHistoryCreatedEvent, item *entities.WorkItem) uint64 {
	for _, e := range groupEvents {
		if e.Entry.Status == constants.StatusPendingApproval {
			return item.ApproverID
		}
	}
	return item.ResponsibleID
}

func (l *MailListener) formatMail(groupEvents []events.WorkItemHistoryCreatedEvent, item *entities.WorkItem, actor *entities.User) (string, string) {
	actorName := "Система"
	if actor != nil {
		actorName = actor.FullName
	}

	var sb strings.Builder
	subject := fmt.Sprintf("Обновление по задаче «%s»", item.Title)

	for _, e := range groupEvents {
		entry := e.Entry
		switch {
		case entry.Status == constants.StatusCreated:
			subject = fmt.Sprintf("Вам назначена задача «%s»", item.Title)
			fmt.Fprintf(&sb, "%s создал(а) задачу «%s» и назначил(а) вас исполнителем.\n", actorName, item.Title)
		case entry.Status == constants.StatusPendingApproval:
			subject = fmt.Sprintf("Запрос согласования: «%s»", item.Title)
			fmt.Fprintf(&sb, "%s запросил(а) согласование перехода задачи «%s» в статус «%s».\n",
				actorName, item.Title, entry.RequestedStatus.String)
		case entry.ApprovalDecision.Valid:
			decision := "отклонил(а)"
			if entry.ApprovalDecision.String == constants.ApprovalApproved {
				decision = "согласовал(а)"
			}
			subject = fmt.Sprintf("Решение по задаче «%s»", item.Title)
			fmt.Fprintf(&sb, "%s %s запрошенный переход. Текущий статус: «%s».\n", actorName, decision, entry.Status)
		default:
			fmt.Fprintf(&sb, "%s изменил(а) задачу «%s». Текущий статус: «%s».\n", actorName, item.Title, entry.Status)
		}

		if entry.Comment.Valid && strings.TrimSpace(entry.Comment.String) != "" {
			fmt.Fprintf(&sb, "Комментарий: %s\n", entry.Comment.String)
		}
		if entry.FileURL.Valid {
			fmt.Fprintf(&sb, "Вложение: %s%s\n", l.serverCfg.BaseURL, entry.FileURL.String)
		}
	}

	if sb.Len() == 0 {
		return "", ""
	}
	fmt.Fprintf(&sb, "\nОткрыть: %s/items/%d\n", l.serverCfg.BaseURL, item.ID)

	return subject, sb.String()
}
