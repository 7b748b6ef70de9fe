package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/udisondev/ragecalc/internal/data"
	"github.com/udisondev/ragecalc/internal/db"
	"github.com/udisondev/ragecalc/internal/game/combat"
	"github.com/udisondev/ragecalc/internal/i18n"
	"github.com/udisondev/ragecalc/internal/model"
	"github.com/udisondev/ragecalc/internal/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("writing response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps domain errors onto HTTP statuses.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrUnknownPosition), errors.Is(err, model.ErrUnknownSlot):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, errBadRequest),
		errors.Is(err, data.ErrUnknownCard),
		errors.Is(err, data.ErrUnknownRune),
		errors.Is(err, db.ErrEmptyKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	return nil
}

func pathPosition(r *http.Request) (model.Position, error) {
	return model.ParsePosition(mux.Vars(r)["position"])
}

func pathSlot(r *http.Request) (model.CardSlot, error) {
	return model.ParseCardSlot(mux.Vars(r)["slot"])
}

func pathPositionSlot(r *http.Request) (model.Position, model.CardSlot, error) {
	pos, err := pathPosition(r)
	if err != nil {
		return 0, 0, err
	}
	slot, err := pathSlot(r)
	if err != nil {
		return 0, 0, err
	}
	return pos, slot, nil
}

// lang returns the breakdown language: the lang query parameter, else the
// settings language.
func (s *Server) lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return i18n.Normalize(l)
	}
	return i18n.Normalize(s.sessions.Settings().Language)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Catalog ---

type runeView struct {
	ID              string `json:"id"`
	Family          string `json:"family"`
	Name            string `json:"name"`
	Level           int    `json:"level"`
	Effect          string `json:"effect"`
	RageBonus       int    `json:"rageBonus,omitempty"`
	DamageBonus     int    `json:"damageBonus,omitempty"`
	FuryDamageBonus int    `json:"furyDamageBonus,omitempty"`
	RagePerStack    int    `json:"ragePerStack,omitempty"`
	PureDamageBonus int    `json:"pureDamageBonus,omitempty"`
	PureDamageCount int    `json:"pureDamageCount,omitempty"`
}

func newRuneView(r model.Rune) runeView {
	return runeView{
		ID:              r.ID,
		Family:          string(r.Family),
		Name:            r.Name,
		Level:           r.Level,
		Effect:          r.Effect,
		RageBonus:       r.RageBonus,
		DamageBonus:     r.DamageBonus,
		FuryDamageBonus: r.FuryDamageBonus,
		RagePerStack:    r.RagePerStack,
		PureDamageBonus: r.PureDamageBonus,
		PureDamageCount: r.PureDamageCount,
	}
}

func (s *Server) handleCatalogCards(w http.ResponseWriter, _ *http.Request) {
	cards := data.Cards()
	out := make([]db.CardRecord, 0, len(cards))
	for _, c := range cards {
		out = append(out, db.CardRecordFromModel(c))
	}
	writeJSON(w, http.StatusOK, out)
}

type runeFamilyView struct {
	Family string     `json:"family"`
	Runes  []runeView `json:"runes"`
}

func (s *Server) handleCatalogRunes(w http.ResponseWriter, _ *http.Request) {
	families := data.RuneFamilies()
	out := make([]runeFamilyView, 0, len(families))
	for _, f := range families {
		runes := data.Runes(f)
		fv := runeFamilyView{Family: string(f), Runes: make([]runeView, 0, len(runes))}
		for _, r := range runes {
			fv.Runes = append(fv.Runes, newRuneView(r))
		}
		out = append(out, fv)
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Team ---

func (s *Server) handleGetTeam(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, db.TeamRecordFromModel(s.sessions.Team()))
}

func (s *Server) handlePutTeam(w http.ResponseWriter, r *http.Request) {
	var rec db.TeamRecord
	if err := decodeBody(r, &rec); err != nil {
		writeErr(w, err)
		return
	}
	team := s.sessions.SetTeam(r.Context(), rec.ToModel())
	writeJSON(w, http.StatusOK, db.TeamRecordFromModel(team))
}

func (s *Server) handleResetTeam(w http.ResponseWriter, r *http.Request) {
	team := s.sessions.Reset(r.Context())
	writeJSON(w, http.StatusOK, db.TeamRecordFromModel(team))
}

// --- Settings ---

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var st db.Settings
	if err := decodeBody(r, &st); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessions.SetSettings(r.Context(), st))
}

// --- Axie counters ---

type axiePatch struct {
	RageStacks     *int `json:"rageStacks"`
	AlliesInFury   *int `json:"alliesInFury"`
	EnergySpent    *int `json:"energySpent"`
	PureDamageUsed *int `json:"pureDamageUsed"`
}

func (s *Server) handlePatchAxie(w http.ResponseWriter, r *http.Request) {
	pos, err := pathPosition(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var p axiePatch
	if err := decodeBody(r, &p); err != nil {
		writeErr(w, err)
		return
	}

	a, err := s.sessions.PatchCounters(r.Context(), pos, session.CounterPatch{
		RageStacks:     p.RageStacks,
		AlliesInFury:   p.AlliesInFury,
		EnergySpent:    p.EnergySpent,
		PureDamageUsed: p.PureDamageUsed,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.AxieRecordFromModel(a))
}

func (s *Server) handleResetTurn(w http.ResponseWriter, r *http.Request) {
	pos, err := pathPosition(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.sessions.ResetTurn(r.Context(), pos)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.AxieRecordFromModel(a))
}

func (s *Server) handlePureDamage(w http.ResponseWriter, r *http.Request) {
	pos, err := pathPosition(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.sessions.ConsumePureDamage(r.Context(), pos)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.AxieRecordFromModel(a))
}

// --- Cards ---

type cardUpdate struct {
	CardID      *string `json:"cardId"`
	AmuletBonus *int    `json:"amuletBonus"`
	IsEvolved   *bool   `json:"isEvolved"`
}

func (s *Server) handlePutCard(w http.ResponseWriter, r *http.Request) {
	pos, slot, err := pathPositionSlot(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var u cardUpdate
	if err := decodeBody(r, &u); err != nil {
		writeErr(w, err)
		return
	}

	ctx := r.Context()
	a, err := s.sessions.Axie(pos)
	if err == nil && u.CardID != nil {
		a, err = s.sessions.EquipCard(ctx, pos, slot, *u.CardID)
	}
	if err == nil && u.AmuletBonus != nil {
		a, err = s.sessions.SetAmulet(ctx, pos, slot, *u.AmuletBonus)
	}
	if err == nil && u.IsEvolved != nil && a.Card(slot).Evolved != *u.IsEvolved {
		a, err = s.sessions.ToggleEvolution(ctx, pos, slot)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.CardRecordFromModel(a.Card(slot)))
}

func (s *Server) handleEvolve(w http.ResponseWriter, r *http.Request) {
	pos, slot, err := pathPositionSlot(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.sessions.ToggleEvolution(r.Context(), pos, slot)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.CardRecordFromModel(a.Card(slot)))
}

// --- Runes ---

type runeUpdate struct {
	RuneType        string `json:"runeType"`
	Family          string `json:"family"`
	Level           int    `json:"level"`
	DamageBonus     int    `json:"damageBonus"`
	FuryDamageBonus int    `json:"furyDamageBonus"`
}

func (s *Server) handlePutRune(w http.ResponseWriter, r *http.Request) {
	pos, err := pathPosition(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	var u runeUpdate
	if err := decodeBody(r, &u); err != nil {
		writeErr(w, err)
		return
	}

	ctx := r.Context()
	var a model.Axie
	switch u.RuneType {
	case model.RuneKindDefined.String():
		a, err = s.sessions.SelectRune(ctx, pos, model.RuneFamily(u.Family), u.Level)
	case model.RuneKindCustom.String():
		a, err = s.sessions.SetCustomRune(ctx, pos, model.CustomRune{
			DamageBonus:     u.DamageBonus,
			FuryDamageBonus: u.FuryDamageBonus,
		})
	case model.RuneKindNone.String():
		a, err = s.sessions.ClearRune(ctx, pos)
	default:
		err = fmt.Errorf("%w: runeType %q", errBadRequest, u.RuneType)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.AxieRecordFromModel(a))
}

func (s *Server) handleDeleteRune(w http.ResponseWriter, r *http.Request) {
	pos, err := pathPosition(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	a, err := s.sessions.ClearRune(r.Context(), pos)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, db.AxieRecordFromModel(a))
}

// --- Damage config ---

type damageConfigUpdate struct {
	DamageReduction *int  `json:"damageReduction"`
	TargetHasAlert  *bool `json:"targetHasAlert"`
}

func damageConfigView(cfg model.DamageConfig) db.DamageConfigRecord {
	return db.DamageConfigRecord{DamageReduction: cfg.DamageReduction, TargetHasAlert: cfg.TargetHasAlert}
}

func (s *Server) handleGetDamageConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, damageConfigView(s.sessions.DamageConfig()))
}

func (s *Server) handlePutDamageConfig(w http.ResponseWriter, r *http.Request) {
	var u damageConfigUpdate
	if err := decodeBody(r, &u); err != nil {
		writeErr(w, err)
		return
	}
	cfg := s.sessions.DamageConfig()
	if u.DamageReduction != nil {
		cfg.DamageReduction = *u.DamageReduction
	}
	if u.TargetHasAlert != nil {
		cfg.TargetHasAlert = *u.TargetHasAlert
	}
	writeJSON(w, http.StatusOK, damageConfigView(s.sessions.SetDamageConfig(r.Context(), cfg)))
}

// --- Damage ---

// damageView is one resolved card, breakdown localised.
type damageView struct {
	Position string              `json:"position"`
	Slot     string              `json:"slot"`
	CardID   string              `json:"cardId"`
	CardName string              `json:"cardName"`
	Result   combat.DamageResult `json:"result"`
}

func newDamageView(team model.Team, pos model.Position, slot model.CardSlot, res combat.DamageResult, lang string) damageView {
	card := team.Axie(pos).Card(slot)
	res.Breakdown = i18n.RenderTerms(res.Terms, lang)
	return damageView{
		Position: pos.String(),
		Slot:     slot.String(),
		CardID:   card.ID,
		CardName: card.Name,
		Result:   res,
	}
}

// damageTable resolves every card on the current state.
func (s *Server) damageTable(lang string) []damageView {
	team, cfg := s.sessions.Snapshot()
	table := combat.CalcTeamDamage(team, cfg)
	out := make([]damageView, 0, model.TeamSize*model.SlotCount)
	for _, td := range table {
		for _, sd := range td.Slots {
			out = append(out, newDamageView(team, td.Position, sd.Slot, sd.Result, lang))
		}
	}
	return out
}

func (s *Server) handleDamageTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.damageTable(s.lang(r)))
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	pos, slot, err := pathPositionSlot(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	team, cfg := s.sessions.Snapshot()
	res := combat.CalcCardDamage(team.Axie(pos), slot, cfg)
	writeJSON(w, http.StatusOK, newDamageView(team, pos, slot, res, s.lang(r)))
}
