package messaging

import (
	"context"
	"fmt"

	"github.com/terraincognita07/tsukimi/internal/metrics"
	"github.com/terraincognita07/tsukimi/internal/services"
)

// Pusher is the outbound half of Client, split out so the notifier can
// be tested without a network.
type Pusher interface {
	Push(ctx context.Context, to string, texts ...string) error
}

// PartnerPushNotifier renders partner notifications as push messages.
// It implements services.PartnerNotifier and services.PairingNotifier.
type PartnerPushNotifier struct {
	pusher Pusher
}

func NewPartnerPushNotifier(pusher Pusher) *PartnerPushNotifier {
	return &PartnerPushNotifier{pusher: pusher}
}

func (notifier *PartnerPushNotifier) NotifyCycleStart(ctx context.Context, recipientID string, note services.CycleStartNotification) error {
	text := fmt.Sprintf(`💕 パートナーからの通知

🩸 生理が始まりました

📅 開始日: %s
📅 予測終了日: %s
📅 次回予測開始日: %s

いつもありがとう ❤️
お互いを大切にしながら過ごしましょう。`,
		note.StartDate, note.EndDate, note.NextStartDate)

	return notifier.push(ctx, recipientID, "cycle_start", text)
}

func (notifier *PartnerPushNotifier) NotifyPartnerLinked(ctx context.Context, recipientID string) error {
	text := `💕 パートナー登録が完了しました！

招待コードが使用され、パートナーと繋がりました。
これからお互いの生理開始を通知でお知らせします。`

	return notifier.push(ctx, recipientID, "partner_linked", text)
}

func (notifier *PartnerPushNotifier) NotifyPartnerRemoved(ctx context.Context, recipientID string) error {
	text := `💔 パートナー関係が解除されました。

再登録には新しい招待コードが必要です。`

	return notifier.push(ctx, recipientID, "partner_removed", text)
}

func (notifier *PartnerPushNotifier) push(ctx context.Context, recipientID string, kind string, text string) error {
	if err := notifier.pusher.Push(ctx, recipientID, text); err != nil {
		metrics.PartnerPushes.WithLabelValues(kind + "_failed").Inc()
		return err
	}
	metrics.PartnerPushes.WithLabelValues(kind).Inc()
	return nil
}
