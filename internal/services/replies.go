package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// Conversational reply catalog. Every date and number interpolated here
// comes from the engine output structs; nothing is recomputed while
// formatting.

const (
	replyGeneralError = "エラーが発生しました。しばらく経ってから再度お試しください。"
	replyCanceled     = "キャンセルしました。"
	replySessionReset = "セッションがリセットされました。再度お試しください。"

	replyFutureDate = "⚠️ 未来の日付は登録できません。"
	replyOldDate    = "⚠️ 1年以上前の日付は登録できません。"

	replyInvalidCycle  = "❌ 生理周期は21日〜35日の範囲で入力してください。"
	replyInvalidPeriod = "❌ 生理期間は3日〜7日の範囲で入力してください。"

	replyDateInputPrompt = `📅 生理開始日を入力してください

🗓️ 入力例:
• 今日、昨日、一昨日
• 3日前、1週間前
• 今週の火曜日、先週の金曜日
• 12/25、2024-12-25

どの形式でも大丈夫です！`

	replyCyclePrompt = `📊 生理周期の設定

21日〜35日の範囲で数字のみを入力してください。

例: 28, 30, 32`

	replyPeriodPrompt = `📊 生理期間の設定

3日〜7日の範囲で数字のみを入力してください。

例: 4, 5, 6`

	replyDateParseRetry = `日付を認識できませんでした。

🗓️ 以下の形式で再度入力してください:
• 今日、昨日、一昨日
• 3日前、1週間前
• 今週の火曜日、先週の金曜日
• 12/25、2024-12-25

または「キャンセル」で中止できます。`

	replyGreeting = `こんにちは！👋

🌸 生理日共有アプリ「Tsukimi」です

「ヘルプ」で使い方を確認できます。`

	replyHelp = `🌸 生理日共有アプリ 🌸

📅 記録機能:
• 生理開始日 - 会話で開始日を記録
• 開始日を入力 - Webフォームで記録
• データ確認 - 最新の記録を確認
• 詳細履歴 - 直近の記録と周期統計

🌸 周期情報:
• 生理情報 - 最新記録の詳細
• 排卵日 - 排卵日と妊娠可能期間
• 今の状態 - 現在の周期段階

⚙️ 設定機能:
• 設定確認 / 周期設定 / 期間設定 / 通知設定

👫 パートナー機能:
• 招待コード生成 - 招待用コードを発行
• 招待コード [コード] - コードでパートナー登録
• パートナー確認 / パートナー解除

🌐 Web機能:
• カレンダー / ダッシュボード / 設定ページ`

	replyTest = `🎉 テスト成功！

✅ Webhook: 受信済み
✅ データベース: 接続済み
✅ 記録・設定・パートナー機能: 稼働中

「ヘルプ」で使い方を確認できます。`

	replyOwnInviteCode = `❌ 自分が生成した招待コードは使用できません。

パートナーに共有してもらったコードを入力してください。`

	replyPartnerExists = `⚠️ すでにパートナーが登録されています。

先に「パートナー解除」を行ってください。`

	replyInviteNotFound = `❌ 無効な招待コードです。

コードを確認して再度お試しください。`

	replyInviteConsumed = "❌ この招待コードは既に使用済みです。"

	replyInviteExpired = `❌ この招待コードは期限切れです（24時間経過）。

「招待コード生成」で新しいコードを発行してもらってください。`

	replyInviteFormat = `❌ 招待コードの形式が正しくありません。

「招待コード ABC123」のように英数字6桁で入力してください。`

	replyNoPartner = "👫 現在パートナーは登録されていません。"

	replyLinkUnavailable = "リンクを発行できませんでした。時間をおいて再度お試しください。"
)

var phaseLabels = map[string]string{
	PhaseMenstrual:  "🩸 生理中",
	PhaseFollicular: "🌱 卵胞期",
	PhaseOvulation:  "🥚 排卵期",
	PhaseLuteal:     "🌙 黄体期",
	PhaseOverdue:    "⏰ 予定日超過",
	PhaseUnknown:    "❓ 不明",
}

func phaseLabel(phase string) string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return phaseLabels[PhaseUnknown]
}

func formatDateJP(date cycledate.Date) string {
	if date.IsZero() {
		return "日付不明"
	}
	return date.String()
}

func replySetupRequired(link string) string {
	if link == "" {
		link = replyLinkUnavailable
	}
	return fmt.Sprintf(`🌸 設定が必要です！

👋 生理日共有アプリへようこそ！
まずは個人設定を行いましょう。

📱 下記リンクから設定してください:
%s

設定完了後、「生理開始日」から記録を始められます！

※リンクは24時間有効です`, link)
}

func replyWebLink(title string, description string, link string) string {
	if link == "" {
		link = replyLinkUnavailable
	}
	return fmt.Sprintf("%s\n\n%s\n%s\n\n※リンクは24時間有効です", title, description, link)
}

func replyRecordSaved(outcome RecordOutcome, originalInput string) string {
	startDate := cycledate.FromTime(outcome.Record.StartDate, outcome.Record.StartDate.Location())
	var builder strings.Builder
	builder.WriteString("🩸 登録完了しました！\n\n")
	if originalInput != "" {
		fmt.Fprintf(&builder, "「%s」→ %s として登録しました。\n\n", originalInput, formatDateJP(startDate))
	}
	fmt.Fprintf(&builder, "📅 開始日: %s\n", formatDateJP(startDate))
	fmt.Fprintf(&builder, "📅 予測終了日: %s\n", formatDateJP(outcome.Predicted.EndDate))
	fmt.Fprintf(&builder, "📅 次回予測開始日: %s\n\n", formatDateJP(outcome.Predicted.NextStartDate))
	builder.WriteString("「データ確認」で記録を確認できます。")
	return builder.String()
}

func replyNoRecords(title string) string {
	return fmt.Sprintf(`%s

まだ生理日の記録がありません。

「生理開始日」と送信して最初の記録を作成してください。`, title)
}

func replyPeriodInfo(details RecordDetails) string {
	var builder strings.Builder
	builder.WriteString("📊 生理情報\n\n")
	fmt.Fprintf(&builder, "📅 開始日: %s\n", formatDateJP(details.StartDate))
	if details.EndDate != nil {
		fmt.Fprintf(&builder, "📅 終了日: %s\n", formatDateJP(*details.EndDate))
	}
	fmt.Fprintf(&builder, "• 日数: %d日（予測: %d日）\n", details.ActualDays, details.PredictedDays)
	if details.Accuracy == AccuracyHigh {
		builder.WriteString("• 予測精度: 高い ✨\n")
	} else {
		builder.WriteString("• 予測精度: ふつう\n")
	}
	fmt.Fprintf(&builder, "\n📅 次回予測開始日: %s", formatDateJP(details.NextPeriod.NextPeriodDate))
	return builder.String()
}

func replyOvulationInfo(info OvulationInfo) string {
	return fmt.Sprintf(`🥚 排卵日情報

📅 予測排卵日: %s
💕 妊娠可能期間: %s 〜 %s
📅 次回生理予測日: %s

※ あくまで周期からの予測です。`,
		formatDateJP(info.OvulationDate),
		formatDateJP(info.FertileStart),
		formatDateJP(info.FertileEnd),
		formatDateJP(info.NextPeriodDate))
}

func replyCurrentStatus(phase CyclePhase, next NextPeriodInfo) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s 現在の状態\n\n", phaseLabel(phase.Phase))
	fmt.Fprintf(&builder, "• 周期 %d日目\n", phase.DaysInPhase)
	if next.Overdue {
		fmt.Fprintf(&builder, "• 予定日を%d日過ぎています\n", -next.DaysUntil)
		builder.WriteString("\n新しい開始日を記録するか、周期設定の見直しをおすすめします。")
	} else {
		fmt.Fprintf(&builder, "• 次回予測日まであと%d日\n", next.DaysUntil)
		fmt.Fprintf(&builder, "\n📅 次回予測開始日: %s", formatDateJP(next.NextPeriodDate))
	}
	return builder.String()
}

func replyDetailedHistory(views []RecordDetails, summary HistorySummary) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "📚 生理記録履歴（最新%d件）\n\n", len(views))
	for index, details := range views {
		marker := "📝"
		if index == 0 {
			marker = "🆕"
		}
		fmt.Fprintf(&builder, "%s 記録 %d:\n", marker, index+1)
		if details.EndDate != nil {
			fmt.Fprintf(&builder, "• 期間: %s ～ %s\n", formatDateJP(details.StartDate), formatDateJP(*details.EndDate))
		} else {
			fmt.Fprintf(&builder, "• 開始日: %s\n", formatDateJP(details.StartDate))
		}
		fmt.Fprintf(&builder, "• 日数: %d日（予測: %d日）\n\n", details.ActualDays, details.PredictedDays)
	}

	builder.WriteString("📊 周期統計:\n")
	if summary.SampleCount == 0 {
		builder.WriteString("• まだ周期を計算できる記録がありません")
	} else {
		fmt.Fprintf(&builder, "• 平均周期: %d日（設定: %d日）\n", summary.AverageCycleLength, summary.SettingCycleLength)
		switch summary.Classification {
		case CycleAgreementAccurate:
			builder.WriteString("• 設定と実績はよく一致しています ✨")
		default:
			builder.WriteString("• 「周期設定」での見直しをおすすめします")
		}
	}
	return builder.String()
}

func replySettingsCheck(settings models.Settings) string {
	notification := "OFF"
	if settings.Notifications {
		notification = "ON"
	}
	return fmt.Sprintf(`⚙️ 現在の設定

• 生理周期: %d日
• 生理期間: %d日
• パートナー通知: %s

「周期設定」「期間設定」「通知設定」で変更できます。`,
		settings.Cycle, settings.Period, notification)
}

func replyCycleUpdated(cycleLength int) string {
	return fmt.Sprintf("✅ 生理周期を%d日に変更しました！", cycleLength)
}

func replyPeriodUpdated(periodLength int) string {
	return fmt.Sprintf("✅ 生理期間を%d日に変更しました！", periodLength)
}

func replyNotificationToggled(enabled bool) string {
	if enabled {
		return "🔔 通知設定をONに変更しました！"
	}
	return "🔔 通知設定をOFFに変更しました！"
}

func replyInviteGenerated(invite models.InviteCode, reused bool) string {
	title := "💕 招待コードを生成しました！"
	if reused {
		title = "💕 既に有効な招待コードがあります！"
	}
	return fmt.Sprintf(`%s

🔑 %s

パートナーにこのコードを伝えて、
「招待コード %s」と送信してもらってください。

※コードは24時間有効・1回のみ使用できます`, title, invite.Code, invite.Code)
}

func replyPartnerLinked() string {
	return `💕 パートナー登録が完了しました！

これからお互いの生理開始を通知でお知らせします。
「パートナー確認」でいつでも確認できます。`
}

func replyPartnerInfo(partnership models.Partnership) string {
	return fmt.Sprintf(`👫 パートナー情報

• 登録日: %s
• 通知: 生理開始時にパートナーへ通知されます

解除する場合は「パートナー解除」と送信してください。`,
		partnership.CreatedAt.Format("2006-01-02"))
}

func replyPartnerRemoved() string {
	return `💔 パートナー関係を解除しました。

発行済みの招待コードも無効になりました。
再登録には新しい招待コードが必要です。`
}

func replyDefault(message string) string {
	return fmt.Sprintf(`📩 「%s」を受け取りました。

🌸 主な機能:
• 生理開始日 - 開始日を記録
• データ確認 - 登録済みデータを確認
• 設定確認 - 個人設定を確認・変更
• 招待コード生成 - パートナー招待

「ヘルプ」と送信すると詳しい使い方を確認できます！`, message)
}
