// Package bot – event dispatcher.
//
// This file implements the Handler, which drives the menu-navigation state
// machine: slash commands, callback taps dispatched by wire prefix, and the
// free-text quantity step. One inbound event is handled to completion before
// the next; shared state (catalog, registry, sessions) guards itself.
//
// Stale or duplicate taps are dropped silently: every flow-advancing callback
// must pass the active-prompt gate, and the gate holds at most one prompt per
// user.
package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-report-bot/internal/catalog"
	"github.com/tbourn/go-report-bot/internal/fingerprint"
	"github.com/tbourn/go-report-bot/internal/menu"
	"github.com/tbourn/go-report-bot/internal/services"
	"github.com/tbourn/go-report-bot/internal/session"
)

// Synthetic prompt message ids. The free-text quantity prompt and the saving
// notice have no button to key on, so the registry records them under
// well-known negative ids no transport message can carry.
const (
	quantityPromptID = -1
	savingPromptID   = -2
)

// Handler dispatches inbound chat events to the services layer.
type Handler struct {
	Transport Transport
	Catalog   *catalog.Cache
	Registry  *session.PromptRegistry
	Sessions  *session.Store
	Reports   *services.ReportService
	Summaries *services.SummaryService
	Admin     *services.AdminService

	// RecentCount is the number of submissions listed by /last.
	RecentCount int

	Log zerolog.Logger
}

// HandleCommand processes one slash command.
func (h *Handler) HandleCommand(ctx context.Context, cmd Command) {
	start := time.Now()
	var err error
	switch cmd.Name {
	case "start":
		err = h.startCommand(ctx, cmd)
	case "report":
		err = h.reportCommand(ctx, cmd.ChatID, "")
	case "admin":
		err = h.adminCommand(ctx, cmd)
	case "calculate":
		err = h.finish(ctx, cmd.ChatID, true)
	case "calculate_month":
		err = h.monthlyCommand(ctx, cmd)
	case "last":
		err = h.lastCommand(ctx, cmd)
	default:
		_, err = h.Transport.SendMessage(ctx, cmd.ChatID, unknownText, nil)
	}
	observe("command_"+cmd.Name, start, err)
	if err != nil {
		h.Log.Error().Err(err).Str("command", cmd.Name).Int64("chat_id", cmd.ChatID).Msg("command failed")
	}
}

// HandleCallback processes one button tap, dispatched by wire prefix.
func (h *Handler) HandleCallback(ctx context.Context, ev CallbackEvent) {
	start := time.Now()
	var (
		kind string
		err  error
	)
	switch {
	case ev.Data == AdminUserReportData:
		kind, err = "admin_report", h.adminReportCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, AdminHidePrefix):
		kind, err = "admin_hide", h.adminHideCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, ConfirmDeletePrefix):
		kind, err = "confdelete", h.confirmDeleteCallback(ctx, ev)
	case ev.Data == CancelDeleteData:
		kind, err = "canceldelete", h.Transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
	case strings.HasPrefix(ev.Data, DeletePrefix):
		kind, err = "delete", h.deleteCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, DefaultPrefix):
		kind, err = "default", h.defaultCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, ModelPrefix):
		kind, err = "model", h.modelCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, ActionPrefix):
		kind, err = "action", h.actionCallback(ctx, ev)
	case strings.HasPrefix(ev.Data, QuantityPrefix):
		kind, err = "quantity", h.quantityCallback(ctx, ev)
	default:
		kind = "unknown"
		h.Log.Debug().Str("data", ev.Data).Msg("unknown callback prefix")
	}
	observe("callback_"+kind, start, err)
	if err != nil {
		h.Log.Error().Err(err).Str("kind", kind).Int64("chat_id", ev.ChatID).Msg("callback failed")
	}
}

// HandleText processes one free-text message (the quantity step).
func (h *Handler) HandleText(ctx context.Context, msg TextMessage) {
	start := time.Now()
	err := h.textMessage(ctx, msg)
	observe("text", start, err)
	if err != nil {
		h.Log.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("text handling failed")
	}
}

// ---- commands ----

func (h *Handler) startCommand(ctx context.Context, cmd Command) error {
	if _, err := h.Transport.SendMessage(ctx, cmd.ChatID, "Привет "+cmd.UserName+"! \n"+welcomeText, nil); err != nil {
		return err
	}
	_, err := h.Transport.SendMessage(ctx, cmd.ChatID, startPromptText, &SendOptions{Keyboard: DefaultKeyboard(false)})
	return err
}

// reportCommand renders the model-selection menu, optionally prefixed with a
// continuation line.
func (h *Handler) reportCommand(ctx context.Context, chatID int64, preamble string) error {
	status, _ := h.Transport.SendMessage(ctx, chatID, loadingText, nil)
	err := h.Catalog.Refresh(ctx, false,
		catalog.TableModels, catalog.TableQuestions, catalog.TableDetails, catalog.TableSettings)
	h.discard(ctx, status)
	if err != nil {
		return err
	}

	text := chooseModelText
	if preamble != "" {
		text = preamble + "\n" + text
	}
	sent, err := h.Transport.SendMessage(ctx, chatID, text, &SendOptions{Keyboard: ModelKeyboard(h.Catalog.Snapshot())})
	if err != nil {
		return err
	}
	h.register(ctx, chatID, sent.MessageID)
	return nil
}

func (h *Handler) adminCommand(ctx context.Context, cmd Command) error {
	if err := h.Catalog.Refresh(ctx, false, catalog.TableSettings); err != nil {
		return err
	}
	if !h.Admin.IsAdmin(cmd.ChatID) {
		_, err := h.Transport.SendMessage(ctx, cmd.ChatID, notAdminText, nil)
		return err
	}
	sent, err := h.Transport.SendMessage(ctx, cmd.ChatID, adminMenuText, &SendOptions{Keyboard: AdminKeyboard()})
	if err != nil {
		return err
	}
	h.register(ctx, cmd.ChatID, sent.MessageID)
	return nil
}

func (h *Handler) monthlyCommand(ctx context.Context, cmd Command) error {
	status, _ := h.Transport.SendMessage(ctx, cmd.ChatID, loadingText, nil)
	chunks, err := h.Summaries.MonthlyUserReport(ctx, cmd.ChatID)
	h.discard(ctx, status)
	if err != nil {
		return err
	}
	return h.sendChunks(ctx, cmd.ChatID, chunks)
}

func (h *Handler) lastCommand(ctx context.Context, cmd Command) error {
	status, _ := h.Transport.SendMessage(ctx, cmd.ChatID, loadingText, nil)
	subs, err := h.Reports.Recent(cmd.ChatID, h.RecentCount)
	h.discard(ctx, status)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		_, err := h.Transport.SendMessage(ctx, cmd.ChatID, nothingText, nil)
		return err
	}
	for _, s := range subs {
		text := "*Модель*: " + s.Model +
			"\n*Операция*: " + s.Operation +
			"\n*Количество*: " + strconv.Itoa(s.Quantity) +
			"\n*Дата*: " + s.Date
		id := strconv.FormatInt(s.UserID, 10)
		_, err := h.Transport.SendMessage(ctx, cmd.ChatID, text, &SendOptions{
			Keyboard:  DeleteKeyboard(id, s.Timestamp),
			ParseMode: "Markdown",
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// ---- navigation callbacks ----

func (h *Handler) modelCallback(ctx context.Context, ev CallbackEvent) error {
	if err := h.Catalog.Refresh(ctx, false, catalog.TableQuestions, catalog.TableDetails); err != nil {
		return err
	}
	if !h.consume(ctx, ev) {
		return nil
	}
	token := ev.Data[len(ModelPrefix):]
	if token == fingerprint.Sentinel {
		return h.finish(ctx, ev.ChatID, true)
	}

	snap := h.Catalog.Snapshot()
	model, ok := menu.ModelByToken(snap, token)
	if !ok {
		// Catalog changed between render and tap.
		return nil
	}
	if _, err := h.Transport.SendMessage(ctx, ev.ChatID, model, nil); err != nil {
		return err
	}
	return h.descend(ctx, ev.ChatID, menu.Token{Model: token, Group: token, Depth: 1}, chooseGroupText)
}

func (h *Handler) actionCallback(ctx context.Context, ev CallbackEvent) error {
	if err := h.Catalog.Refresh(ctx, false, catalog.TableQuestions, catalog.TableDetails); err != nil {
		return err
	}
	if !h.consume(ctx, ev) {
		return nil
	}
	payload := ev.Data[len(ActionPrefix):]
	if payload == fingerprint.Sentinel {
		return h.finish(ctx, ev.ChatID, true)
	}

	tok, err := menu.ParseToken(payload)
	if err != nil {
		h.Log.Warn().Str("data", ev.Data).Msg("malformed path token")
		return nil
	}
	return h.descend(ctx, ev.ChatID, tok, chooseActionText)
}

// descend renders the next menu below tok: a deeper group level when one
// exists, else the leaf operations.
func (h *Handler) descend(ctx context.Context, chatID int64, tok menu.Token, text string) error {
	snap := h.Catalog.Snapshot()
	var kb Keyboard
	if opts := menu.ListNextLevel(snap, tok); opts != nil {
		kb = GroupKeyboard(opts)
	} else {
		kb = LeafKeyboard(menu.ListLeafOperations(snap, tok))
	}
	sent, err := h.Transport.SendMessage(ctx, chatID, text, &SendOptions{Keyboard: kb})
	if err != nil {
		return err
	}
	h.register(ctx, chatID, sent.MessageID)
	return nil
}

func (h *Handler) quantityCallback(ctx context.Context, ev CallbackEvent) error {
	if !h.consume(ctx, ev) {
		return nil
	}
	payload := ev.Data[len(QuantityPrefix):]
	if payload == fingerprint.Sentinel {
		return h.finish(ctx, ev.ChatID, true)
	}

	tok, err := menu.ParseToken(payload)
	if err != nil {
		h.Log.Warn().Str("data", ev.Data).Msg("malformed path token")
		return nil
	}
	snap := h.Catalog.Snapshot()
	model, ok := menu.ModelByToken(snap, tok.Model)
	if !ok {
		return nil
	}
	operation, ok := menu.OperationByToken(snap, tok.Group)
	if !ok {
		return nil
	}

	if _, err := h.Transport.SendMessage(ctx, ev.ChatID, operation, nil); err != nil {
		return err
	}
	if _, err := h.Transport.SendMessage(ctx, ev.ChatID, quantityPromptText, nil); err != nil {
		return err
	}
	h.Sessions.Begin(ev.ChatID, model, operation)
	h.register(ctx, ev.ChatID, quantityPromptID)
	return nil
}

func (h *Handler) defaultCallback(ctx context.Context, ev CallbackEvent) error {
	_ = h.Transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
	switch strings.TrimPrefix(ev.Data, DefaultPrefix) {
	case "_DO":
		return h.reportCommand(ctx, ev.ChatID, "")
	case "_CALCULATE":
		return h.finish(ctx, ev.ChatID, false)
	}
	return nil
}

// ---- quantity step ----

func (h *Handler) textMessage(ctx context.Context, msg TextMessage) error {
	if !h.Registry.IsActive(msg.ChatID, quantityPromptID) {
		_, err := h.Transport.SendMessage(ctx, msg.ChatID, unknownText, nil)
		return err
	}
	if _, err := services.ParseQuantity(msg.Text); err != nil {
		text := notIntegerText
		if errors.Is(err, services.ErrQuantityNotPositive) {
			text = notPositiveText
		}
		_, err := h.Transport.SendMessage(ctx, msg.ChatID, text, nil)
		return err
	}

	// Claim the saving slot before the store round-trip: a duplicate text
	// arriving mid-save fails the registry gate above.
	h.register(ctx, msg.ChatID, savingPromptID)
	status, _ := h.Transport.SendMessage(ctx, msg.ChatID, savingText, nil)

	_, err := h.Reports.Submit(ctx, msg.ChatID, msg.UserName, msg.Text)
	h.discard(ctx, status)
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			_, err := h.Transport.SendMessage(ctx, msg.ChatID, unknownText, nil)
			return err
		}
		// Store failure: the session survived, re-open the quantity gate so
		// the same answer can be resubmitted.
		h.register(ctx, msg.ChatID, quantityPromptID)
		if _, serr := h.Transport.SendMessage(ctx, msg.ChatID, shrugText, nil); serr != nil {
			return serr
		}
		if _, serr := h.Transport.SendMessage(ctx, msg.ChatID, submitFailedText, nil); serr != nil {
			return serr
		}
		return err
	}
	return h.reportCommand(ctx, msg.ChatID, continueText)
}

// ---- finalize ----

// finish renders today's result. With thanks it is the end-of-flow message;
// without, the plain daily view.
func (h *Handler) finish(ctx context.Context, chatID int64, thanks bool) error {
	h.Registry.Evict(chatID)
	status, _ := h.Transport.SendMessage(ctx, chatID, calculatingText, nil)
	res, err := h.Summaries.DailyResult(ctx, chatID)
	h.discard(ctx, status)
	if err != nil {
		return err
	}
	if thanks {
		if _, err := h.Transport.SendMessage(ctx, chatID, thanksText, nil); err != nil {
			return err
		}
		if !res.Found {
			return nil
		}
		if _, err := h.Transport.SendMessage(ctx, chatID, activityPrefix+res.Hours+" ч.", nil); err != nil {
			return err
		}
		_, err = h.Transport.SendMessage(ctx, chatID, earnedPrefix+res.Amount, nil)
		return err
	}
	if res.Found {
		if _, err := h.Transport.SendMessage(ctx, chatID, activityPrefix+res.Hours+" ч.", nil); err != nil {
			return err
		}
	}
	_, err = h.Transport.SendMessage(ctx, chatID, earnedPrefix+res.Amount, nil)
	return err
}

// ---- delete flow ----

func (h *Handler) deleteCallback(ctx context.Context, ev CallbackEvent) error {
	payload := ev.Data[len(DeletePrefix):]
	ownerID, timestamp, ok := strings.Cut(payload, "_")
	if !ok {
		return nil
	}
	return h.Transport.EditReplyMarkup(ctx, ev.ChatID, ev.MessageID, ConfirmDeleteKeyboard(ownerID, timestamp))
}

func (h *Handler) confirmDeleteCallback(ctx context.Context, ev CallbackEvent) error {
	payload := ev.Data[len(ConfirmDeletePrefix):]
	ownerStr, timestamp, ok := strings.Cut(payload, "_")
	if !ok {
		return nil
	}
	ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil
	}
	if err := h.Reports.Delete(ctx, ownerID, timestamp); err != nil && !errors.Is(err, services.ErrRecordNotFound) {
		return err
	}
	return h.Transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
}

// ---- admin callbacks ----

func (h *Handler) adminReportCallback(ctx context.Context, ev CallbackEvent) error {
	if !h.Admin.IsAdmin(ev.ChatID) {
		return nil
	}
	status, _ := h.Transport.SendMessage(ctx, ev.ChatID, loadingText, nil)
	_ = h.Transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
	chunks, err := h.Summaries.CrossUserReport(ctx)
	h.discard(ctx, status)
	if err != nil {
		return err
	}
	return h.sendChunks(ctx, ev.ChatID, chunks)
}

func (h *Handler) adminHideCallback(ctx context.Context, ev CallbackEvent) error {
	if !h.Admin.IsAdmin(ev.ChatID) {
		return nil
	}
	status, _ := h.Transport.SendMessage(ctx, ev.ChatID, workingText, nil)
	target, err := services.ParseHideTarget(ev.Data[len(AdminHidePrefix):])
	if err != nil {
		h.discard(ctx, status)
		h.Log.Warn().Str("data", ev.Data).Msg("malformed hide target")
		return nil
	}
	labels, err := h.Admin.Hide(ctx, target)
	h.discard(ctx, status)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if kb := stripHidden(ev.Keyboard, target); kb != nil {
		if err := h.Transport.EditReplyMarkup(ctx, ev.ChatID, ev.MessageID, kb); err != nil {
			return err
		}
	}
	_, err = h.Transport.SendMessage(ctx, ev.ChatID, hiddenPrefix+labels.Model+"; "+labels.Detail, nil)
	return err
}

// stripHidden removes the keyboard rows whose callback tokens fall under the
// hide target, so the live menu reflects the change immediately.
func stripHidden(kb Keyboard, target services.HideTarget) Keyboard {
	if kb == nil {
		return nil
	}
	out := make(Keyboard, 0, len(kb))
	for _, row := range kb {
		if len(row) > 0 && hiddenButton(row[0].Data, target) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// hiddenButton reports whether a callback payload addresses the target.
func hiddenButton(data string, target services.HideTarget) bool {
	var token string
	switch {
	case strings.HasPrefix(data, ModelPrefix):
		token = data[len(ModelPrefix):]
	case strings.HasPrefix(data, ActionPrefix):
		token = data[len(ActionPrefix):]
	case strings.HasPrefix(data, QuantityPrefix):
		token = data[len(QuantityPrefix):]
	default:
		return false
	}
	parts := strings.Split(token, "_")
	if parts[0] != target.Model {
		return false
	}
	if target.Key == "" {
		return true
	}
	return len(parts) > 1 && parts[1] == target.Key
}

// ---- helpers ----

// consume deletes the tapped prompt message and checks the active-prompt
// gate. A false return means the tap was stale and must be dropped silently.
func (h *Handler) consume(ctx context.Context, ev CallbackEvent) bool {
	_ = h.Transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID)
	if !h.Registry.IsActive(ev.ChatID, ev.MessageID) {
		botStale.Inc()
		h.Log.Debug().Int64("chat_id", ev.ChatID).Int("message_id", ev.MessageID).Msg("stale callback dropped")
		return false
	}
	return true
}

// register records the new active prompt and removes the message of the
// prompt it evicted, if any still exists.
func (h *Handler) register(ctx context.Context, chatID int64, messageID int) {
	prev, had := h.Registry.Register(chatID, session.Prompt{MessageID: messageID, ChatID: chatID})
	if had && prev.MessageID > 0 && prev.MessageID != messageID {
		_ = h.Transport.DeleteMessage(ctx, prev.ChatID, prev.MessageID)
	}
}

// discard deletes a transient status message.
func (h *Handler) discard(ctx context.Context, m SentMessage) {
	if m.MessageID != 0 {
		_ = h.Transport.DeleteMessage(ctx, m.ChatID, m.MessageID)
	}
}

// sendChunks delivers a chunked report, or the empty-report notice.
func (h *Handler) sendChunks(ctx context.Context, chatID int64, chunks []string) error {
	if len(chunks) == 0 {
		_, err := h.Transport.SendMessage(ctx, chatID, emptyReportText, nil)
		return err
	}
	for _, c := range chunks {
		if _, err := h.Transport.SendMessage(ctx, chatID, c, &SendOptions{ParseMode: "HTML"}); err != nil {
			return err
		}
	}
	return nil
}
