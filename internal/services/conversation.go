package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/terraincognita07/tsukimi/internal/cycledate"
	"github.com/terraincognita07/tsukimi/internal/metrics"
	"github.com/terraincognita07/tsukimi/internal/models"
)

// LinkBuilder mints signed web links for the dashboard views. The api
// package provides the JWT-backed implementation.
type LinkBuilder interface {
	WebLink(userID string, view string) (string, error)
}

// Web view names understood by the link builder.
const (
	ViewSetup     = "setup"
	ViewDashboard = "dashboard"
	ViewCalendar  = "calendar"
	ViewEntry     = "entry"
)

var inviteCodePattern = regexp.MustCompile(`(?i)(?:招待コード|invite)\s*([A-Z0-9]{6})\b`)
var inviteCommandPattern = regexp.MustCompile(`(?i)^(?:招待コード|invite)\s`)

// command name → accepted phrases, all compared after lowercasing and
// trimming.
var commandPhrases = map[string][]string{
	"help":           {"ヘルプ", "help"},
	"test":           {"テスト", "test"},
	"settings_page":  {"設定ページ", "設定画面", "設定"},
	"dashboard":      {"ダッシュボード", "状況確認", "現在の状況"},
	"calendar":       {"カレンダー", "カレンダー表示"},
	"entry_page":     {"開始日を入力", "生理開始", "記録する"},
	"date_input":     {"生理開始日", "開始日入力"},
	"data_check":     {"データ確認"},
	"period_info":    {"生理情報", "生理記録", "記録詳細"},
	"ovulation_info": {"排卵日", "排卵日情報", "妊娠可能期間"},
	"current_status": {"今の状態", "現在の状態", "周期状態"},
	"history":        {"詳細履歴", "記録履歴", "履歴詳細"},
	"settings_check": {"設定確認"},
	"cycle_setting":  {"周期設定"},
	"period_setting": {"期間設定"},
	"notifications":  {"通知設定"},
	"invite_create":  {"招待コード生成"},
	"partner_check":  {"パートナー確認"},
	"partner_remove": {"パートナー解除"},
}

// Commands usable before initial setup is completed.
var preSetupCommands = map[string]bool{
	"help":          true,
	"test":          true,
	"settings_page": true,
}

var greetingPhrases = []string{"こんにちは", "hello"}

const historyReplyLimit = 5

// ConversationService routes inbound text events: multi-turn input
// states first, then the command vocabulary, then the default reply.
// It always produces a reply; infrastructure failures are logged and
// answered with a generic error message rather than surfaced.
type ConversationService struct {
	users         UserStore
	conversations ConversationStore
	records       *RecordService
	settings      *SettingsService
	partners      *PartnerService
	links         LinkBuilder
	location      *time.Location
	log           zerolog.Logger
	now           func() time.Time
}

func NewConversationService(
	users UserStore,
	conversations ConversationStore,
	records *RecordService,
	settings *SettingsService,
	partners *PartnerService,
	links LinkBuilder,
	location *time.Location,
	log zerolog.Logger,
) *ConversationService {
	if location == nil {
		location = time.UTC
	}
	return &ConversationService{
		users:         users,
		conversations: conversations,
		records:       records,
		settings:      settings,
		partners:      partners,
		links:         links,
		location:      location,
		log:           log,
		now:           time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (service *ConversationService) WithClock(now func() time.Time) *ConversationService {
	service.now = now
	return service
}

// Reply handles one inbound text message and returns the reply text.
func (service *ConversationService) Reply(ctx context.Context, userID string, message string) string {
	user, err := service.users.EnsureUser(userID, service.now())
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("user bootstrap failed")
		return replyGeneralError
	}

	// A pending multi-turn state consumes the message before any
	// command matching. Take is atomic: concurrent messages cannot
	// both observe the same pending state.
	state, pending, err := service.conversations.Take(userID)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("conversation state fetch failed")
		return replyGeneralError
	}
	if pending {
		return service.handlePendingInput(ctx, userID, state, message)
	}

	command := matchCommand(message)

	if !user.InitialSetupCompleted && !preSetupCommands[command] && !isGreeting(message) {
		metrics.Commands.WithLabelValues("setup_gate").Inc()
		return replySetupRequired(service.webLink(userID, ViewSetup))
	}

	if command != "" {
		metrics.Commands.WithLabelValues(command).Inc()
		return service.dispatch(ctx, userID, command)
	}

	if inviteCodePattern.MatchString(message) || inviteCommandPattern.MatchString(strings.TrimSpace(message)) {
		metrics.Commands.WithLabelValues("invite_redeem").Inc()
		return service.redeemInvite(ctx, userID, message)
	}

	if isGreeting(message) {
		metrics.Commands.WithLabelValues("greeting").Inc()
		return replyGreeting
	}

	metrics.Commands.WithLabelValues("default").Inc()
	return replyDefault(strings.TrimSpace(message))
}

func matchCommand(message string) string {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for command, phrases := range commandPhrases {
		for _, phrase := range phrases {
			if normalized == strings.ToLower(phrase) {
				return command
			}
		}
	}
	return ""
}

func isGreeting(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, phrase := range greetingPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func isCancel(message string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	return normalized == "キャンセル" || normalized == "cancel"
}

func (service *ConversationService) dispatch(ctx context.Context, userID string, command string) string {
	switch command {
	case "help":
		return replyHelp
	case "test":
		return replyTest
	case "settings_page":
		return replyWebLink("⚙️ 設定ページ", "下記リンクから設定を変更できます:", service.webLink(userID, ViewSetup))
	case "dashboard":
		return replyWebLink("📊 現在の状況", "詳細な状況はこちらで確認できます:", service.webLink(userID, ViewDashboard))
	case "calendar":
		return replyWebLink("📅 カレンダー", "視覚的なカレンダーで確認できます:", service.webLink(userID, ViewCalendar))
	case "entry_page":
		return replyWebLink("🌸 開始日入力", "生理開始日を記録してください:", service.webLink(userID, ViewEntry))
	case "date_input":
		return service.armState(userID, models.ConversationAwaitingDate, replyDateInputPrompt)
	case "cycle_setting":
		return service.armState(userID, models.ConversationAwaitingCycle, replyCyclePrompt)
	case "period_setting":
		return service.armState(userID, models.ConversationAwaitingPeriod, replyPeriodPrompt)
	case "data_check", "period_info":
		return service.latestRecordReply(userID)
	case "ovulation_info":
		return service.ovulationReply(userID)
	case "current_status":
		return service.statusReply(userID)
	case "history":
		return service.historyReply(userID)
	case "settings_check":
		return replySettingsCheck(service.settings.Settings(userID))
	case "notifications":
		enabled, err := service.settings.ToggleNotifications(userID)
		if err != nil {
			service.log.Error().Err(err).Str("user_id", userID).Msg("notification toggle failed")
			return replyGeneralError
		}
		return replyNotificationToggled(enabled)
	case "invite_create":
		return service.generateInviteReply(userID)
	case "partner_check":
		return service.partnerCheckReply(userID)
	case "partner_remove":
		return service.partnerRemoveReply(ctx, userID)
	default:
		return replyDefault(command)
	}
}

// armState persists a pending input state and returns its prompt.
func (service *ConversationService) armState(userID string, kind string, prompt string) string {
	if err := service.conversations.Set(userID, kind, service.now()); err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Str("kind", kind).Msg("conversation state set failed")
		return replyGeneralError
	}
	return prompt
}

func (service *ConversationService) handlePendingInput(ctx context.Context, userID string, state models.ConversationState, message string) string {
	if isCancel(message) {
		return replyCanceled
	}

	switch state.Kind {
	case models.ConversationAwaitingDate:
		return service.handleDateInput(ctx, userID, message)
	case models.ConversationAwaitingCycle:
		return service.handleNumericSetting(userID, state.Kind, message)
	case models.ConversationAwaitingPeriod:
		return service.handleNumericSetting(userID, state.Kind, message)
	default:
		service.log.Warn().Str("user_id", userID).Str("kind", state.Kind).Msg("unknown conversation state discarded")
		return replySessionReset
	}
}

func (service *ConversationService) handleDateInput(ctx context.Context, userID string, message string) string {
	today := cycledate.FromTime(service.now(), service.location)
	date, canceled, err := cycledate.Parse(message, today)
	if canceled {
		return replyCanceled
	}
	if err != nil {
		metrics.ParseFailures.Inc()
		// Keep waiting for a usable date.
		return service.armState(userID, models.ConversationAwaitingDate, replyDateParseRetry)
	}

	outcome, err := service.records.RecordCycleStart(ctx, userID, RecordEntry{
		StartDate:     date,
		InputMethod:   models.InputMethodNatural,
		OriginalInput: message,
		MaxAgeDays:    models.MaxEntryAgeDaysConversational,
	})
	if err != nil {
		switch cycledate.ReasonCode(err) {
		case cycledate.ReasonFutureDate:
			return service.armState(userID, models.ConversationAwaitingDate, replyFutureDate)
		case cycledate.ReasonOldDate:
			return service.armState(userID, models.ConversationAwaitingDate, replyOldDate)
		}
		service.log.Error().Err(err).Str("user_id", userID).Msg("record save failed")
		return replyGeneralError
	}

	metrics.RecordsSaved.WithLabelValues(models.InputMethodNatural).Inc()
	return replyRecordSaved(outcome, strings.TrimSpace(message))
}

func (service *ConversationService) handleNumericSetting(userID string, kind string, message string) string {
	value, err := strconv.Atoi(strings.TrimSpace(message))

	if kind == models.ConversationAwaitingCycle {
		if err != nil || !ValidCycleLength(value) {
			return service.armState(userID, kind, replyInvalidCycle)
		}
		if err := service.settings.UpdateCycleLength(userID, value); err != nil {
			service.log.Error().Err(err).Str("user_id", userID).Msg("cycle update failed")
			return replyGeneralError
		}
		return replyCycleUpdated(value)
	}

	if err != nil || !ValidPeriodLength(value) {
		return service.armState(userID, kind, replyInvalidPeriod)
	}
	if err := service.settings.UpdatePeriodLength(userID, value); err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("period update failed")
		return replyGeneralError
	}
	return replyPeriodUpdated(value)
}

func (service *ConversationService) latestRecordReply(userID string) string {
	details, found, err := service.records.LatestDetails(userID)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("latest record fetch failed")
		return replyGeneralError
	}
	if !found {
		return replyNoRecords("📊 生理情報")
	}
	return replyPeriodInfo(details)
}

func (service *ConversationService) ovulationReply(userID string) string {
	details, found, err := service.records.LatestDetails(userID)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("latest record fetch failed")
		return replyGeneralError
	}
	if !found {
		return replyNoRecords("🥚 排卵日情報")
	}
	return replyOvulationInfo(details.Ovulation)
}

func (service *ConversationService) statusReply(userID string) string {
	details, found, err := service.records.LatestDetails(userID)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("latest record fetch failed")
		return replyGeneralError
	}
	if !found {
		return replyNoRecords("📊 現在の状態")
	}
	return replyCurrentStatus(details.Phase, details.NextPeriod)
}

func (service *ConversationService) historyReply(userID string) string {
	views, summary, err := service.records.History(userID, historyReplyLimit)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("history fetch failed")
		return replyGeneralError
	}
	if len(views) == 0 {
		return replyNoRecords("📚 生理記録履歴")
	}
	return replyDetailedHistory(views, summary)
}

func (service *ConversationService) generateInviteReply(userID string) string {
	invite, reused, err := service.partners.GenerateInvite(userID)
	if err != nil {
		if reply, handled := partnerErrorReply(err); handled {
			return reply
		}
		service.log.Error().Err(err).Str("user_id", userID).Msg("invite generation failed")
		return replyGeneralError
	}
	return replyInviteGenerated(invite, reused)
}

func (service *ConversationService) redeemInvite(ctx context.Context, userID string, message string) string {
	match := inviteCodePattern.FindStringSubmatch(message)
	if match == nil {
		return replyInviteFormat
	}
	code := strings.ToUpper(match[1])

	if _, err := service.partners.RedeemInvite(ctx, userID, code); err != nil {
		if reply, handled := partnerErrorReply(err); handled {
			return reply
		}
		service.log.Error().Err(err).Str("user_id", userID).Str("code", code).Msg("invite redemption failed")
		return replyGeneralError
	}

	metrics.PartnerPushes.WithLabelValues("pairing").Inc()
	return replyPartnerLinked()
}

func (service *ConversationService) partnerCheckReply(userID string) string {
	partnership, found, err := service.partners.CheckPartner(userID)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Msg("partner lookup failed")
		return replyGeneralError
	}
	if !found {
		return replyNoPartner
	}
	return replyPartnerInfo(partnership)
}

func (service *ConversationService) partnerRemoveReply(ctx context.Context, userID string) string {
	if _, err := service.partners.RemovePartner(ctx, userID); err != nil {
		if reply, handled := partnerErrorReply(err); handled {
			return reply
		}
		service.log.Error().Err(err).Str("user_id", userID).Msg("partner removal failed")
		return replyGeneralError
	}
	return replyPartnerRemoved()
}

// partnerErrorReply maps the partner workflow's typed errors to their
// user-facing replies.
func partnerErrorReply(err error) (string, bool) {
	switch ReasonCode(err) {
	case ReasonOwnInviteCode:
		return replyOwnInviteCode, true
	case ReasonPartnerExists:
		return replyPartnerExists, true
	case ReasonInviteNotFound:
		return replyInviteNotFound, true
	case ReasonInviteConsumed:
		return replyInviteConsumed, true
	case ReasonInviteExpired:
		return replyInviteExpired, true
	case ReasonNoPartner:
		return replyNoPartner, true
	default:
		return "", false
	}
}

func (service *ConversationService) webLink(userID string, view string) string {
	if service.links == nil {
		return ""
	}
	link, err := service.links.WebLink(userID, view)
	if err != nil {
		service.log.Error().Err(err).Str("user_id", userID).Str("view", view).Msg("web link generation failed")
		return ""
	}
	return link
}
