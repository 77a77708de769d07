package assignment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tably/internal/availability"
	"tably/internal/learning"
	"tably/internal/reservations"
	"tably/internal/shared/clock"
	"tably/internal/shared/faults"
	"tably/internal/tables"
	"tably/internal/weather"
	"tably/pkg/logger"

	"github.com/google/uuid"
)

type holdStatus int

const (
	holdPending holdStatus = iota
	holdConfirmed
	holdReleased
)

// hold is one tentative placement awaiting confirm or release. There is
// no automatic timeout; a hold is finalized only explicitly.
type hold struct {
	id        string
	request   Request
	table     tables.Table
	aux       *tables.Table
	keys      []availability.Key
	status    holdStatus
	createdAt time.Time
}

// Deps bundles the engine collaborators. Store and TableStore may be
// nil; confirmation then skips persistence.
type Deps struct {
	Catalog    tables.Catalog
	Ledger     availability.Ledger
	Weather    *weather.Advisor
	Learning   *learning.Aggregator
	Store      reservations.Repository
	TableStore tables.Repository
	Clock      clock.Clock
	Logger     *logger.Logger

	AutoAssignCeiling int
	HoldRetryLimit    int
}

// Engine runs the allocation policy: ceiling gate, pet constraint,
// weather gate, then the capacity-bucket search. Successful placements
// hold their occupancy keys and enter the hold registry until confirmed
// or released.
type Engine struct {
	catalog    tables.Catalog
	ledger     availability.Ledger
	weather    *weather.Advisor
	learning   *learning.Aggregator
	store      reservations.Repository
	tableStore tables.Repository
	clock      clock.Clock
	logger     *logger.Logger
	ceiling    int
	retryLimit int

	mu    sync.Mutex
	holds map[string]*hold
}

func NewEngine(deps Deps) *Engine {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Logger == nil {
		deps.Logger = logger.GetDefault()
	}
	if deps.AutoAssignCeiling <= 0 {
		deps.AutoAssignCeiling = 10
	}
	if deps.HoldRetryLimit <= 0 {
		deps.HoldRetryLimit = 3
	}
	return &Engine{
		catalog:    deps.Catalog,
		ledger:     deps.Ledger,
		weather:    deps.Weather,
		learning:   deps.Learning,
		store:      deps.Store,
		tableStore: deps.TableStore,
		clock:      deps.Clock,
		logger:     deps.Logger,
		ceiling:    deps.AutoAssignCeiling,
		retryLimit: deps.HoldRetryLimit,
		holds:      make(map[string]*hold),
	}
}

// placement is one successful hold on a table, possibly paired with
// its designated auxiliary.
type placement struct {
	table tables.Table
	aux   *tables.Table
	keys  []availability.Key
}

// Assign finds and holds a table for the request. Malformed input is
// rejected with an error; business failures come back inside the
// Result so callers can branch without unwrapping.
func (e *Engine) Assign(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if req.PartySize > e.ceiling {
		result := &Result{
			FailureReason:      FailureCapacityExceeded,
			EscalationRequired: true,
			Warnings:           []string{"grupo supera el límite de asignación automática"},
		}
		e.logger.LogAssignmentFailure(ctx, result.FailureReason, req.PartySize, true)
		return result, nil
	}

	pref := req.ZonePreference
	var warnings []string
	petForced := false
	if req.HasPet {
		outdoor := tables.ZoneOutdoor
		pref = &outdoor
		petForced = true
		warnings = append(warnings, "mascota presente: asignación en terraza")
	}

	if petForced && req.TerraceClosed {
		result := &Result{
			FailureReason: FailureNoAvailability,
			Warnings:      append(warnings, "terraza cerrada, sin opciones compatibles con mascota"),
		}
		e.logger.LogAssignmentFailure(ctx, result.FailureReason, req.PartySize, false)
		return result, nil
	}

	outdoorWanted := pref != nil && *pref == tables.ZoneOutdoor
	if outdoorWanted {
		favorable, weatherWarnings := true, []string(nil)
		if e.weather != nil {
			favorable, weatherWarnings = e.weather.TerraceFavorable(ctx)
		}
		switch {
		case req.TerraceClosed:
			pref = nil
			warnings = append(warnings, "terraza cerrada, preferencia ignorada")
		case !favorable && petForced:
			// Pet keeps the terrace; staff must warn the customer.
			warnings = append(warnings, "condiciones adversas en terraza, avisar al cliente")
			warnings = append(warnings, weatherWarnings...)
		case !favorable:
			pref = nil
			warnings = append(warnings, "preferencia de terraza relajada por meteorología")
			warnings = append(warnings, weatherWarnings...)
		}
	}

	var placed *placement
	for attempt := 0; attempt <= e.retryLimit; attempt++ {
		p, err := e.tryPlace(ctx, req, pref, petForced)
		if err == nil {
			placed = p
			break
		}
		if errors.Is(err, faults.ErrHoldConflict) {
			continue
		}
		if !errors.Is(err, faults.ErrNoAvailability) {
			// Ledger infrastructure trouble degrades to no availability.
			e.logger.LogDegraded(ctx, "availability", err)
		}
		break
	}

	if placed == nil {
		result := &Result{
			FailureReason: FailureNoAvailability,
			Warnings:      warnings,
		}
		e.logger.LogAssignmentFailure(ctx, result.FailureReason, req.PartySize, false)
		return result, nil
	}

	if placed.table.Note != "" {
		warnings = append(warnings, placed.table.Note)
	}
	if placed.aux != nil && placed.aux.Note != "" {
		warnings = append(warnings, placed.aux.Note)
	}
	if placed.table.Zone == tables.ZoneOutdoor {
		warnings = append(warnings, "mesa en terraza, sujeta a cambios por meteorología")
	}

	h := &hold{
		id:        uuid.New().String(),
		request:   req,
		table:     placed.table,
		aux:       placed.aux,
		keys:      placed.keys,
		status:    holdPending,
		createdAt: e.clock.Now(),
	}
	e.mu.Lock()
	e.holds[h.id] = h
	e.mu.Unlock()

	result := &Result{
		Success:  true,
		TableID:  &placed.table.ID,
		UsesAux:  placed.aux != nil,
		Zone:     placed.table.Zone,
		FitScore: placed.table.Waste(req.PartySize),
		Warnings: warnings,
		HoldID:   h.id,
	}
	if placed.aux != nil {
		result.AuxTableID = &placed.aux.ID
	}
	if e.learning != nil {
		result.ExpectedDurationMinutes = e.learning.ExpectedDuration(
			req.PartySize, req.weekday(), req.Shift, placed.table.Zone)
	}

	e.logger.LogAssignmentSuccess(ctx, h.id, placed.table.ID.String(), req.PartySize, result.UsesAux)
	return result, nil
}

// tryPlace walks the search plan once and holds the first free
// candidate. A lost race surfaces as a hold conflict so the caller can
// rerun the search; exhaustion returns ErrNoAvailability.
func (e *Engine) tryPlace(ctx context.Context, req Request, pref *tables.Zone, requireOutdoor bool) (*placement, error) {
	all := e.catalog.List(nil)

	for _, b := range searchPlan(req.PartySize) {
		for _, t := range candidates(all, b, req.PartySize, pref, req.TerraceClosed, requireOutdoor) {
			if b.paired {
				p, err := e.holdPair(ctx, req, t)
				if err != nil {
					return nil, err
				}
				if p != nil {
					return p, nil
				}
				continue
			}

			key := availability.Key{TableID: t.ID, Date: req.Date, Shift: req.Shift}
			free, err := e.ledger.IsFree(ctx, key)
			if err != nil {
				return nil, err
			}
			if !free {
				continue
			}
			if err := e.ledger.Hold(ctx, key, "assignment"); err != nil {
				if errors.Is(err, faults.ErrHoldConflict) {
					e.logger.LogHoldConflict(ctx, t.ID.String(), req.Date, string(req.Shift))
				}
				return nil, err
			}
			table := t
			return &placement{table: table, keys: []availability.Key{key}}, nil
		}
	}
	return nil, fmt.Errorf("%w: no table fits party of %d on %s %s", faults.ErrNoAvailability, req.PartySize, req.Date, req.Shift)
}

// holdPair holds an ampliable table together with its designated
// auxiliary. Both keys must be free; losing the auxiliary race releases
// the primary. Returns (nil, nil) when the pair is not currently
// holdable so the search can move on.
func (e *Engine) holdPair(ctx context.Context, req Request, primary tables.Table) (*placement, error) {
	aux, ok := e.catalog.Get(*primary.AuxTableID)
	if !ok || aux.Status == tables.TableStatusBlocked {
		return nil, nil
	}

	primaryKey := availability.Key{TableID: primary.ID, Date: req.Date, Shift: req.Shift}
	auxKey := availability.Key{TableID: aux.ID, Date: req.Date, Shift: req.Shift}

	for _, key := range []availability.Key{primaryKey, auxKey} {
		free, err := e.ledger.IsFree(ctx, key)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, nil
		}
	}

	if err := e.ledger.Hold(ctx, primaryKey, "assignment"); err != nil {
		if errors.Is(err, faults.ErrHoldConflict) {
			e.logger.LogHoldConflict(ctx, primary.ID.String(), req.Date, string(req.Shift))
		}
		return nil, err
	}
	if err := e.ledger.Hold(ctx, auxKey, "assignment"); err != nil {
		e.ledger.Release(ctx, primaryKey)
		if errors.Is(err, faults.ErrHoldConflict) {
			e.logger.LogHoldConflict(ctx, aux.ID.String(), req.Date, string(req.Shift))
		}
		return nil, err
	}

	return &placement{table: primary, aux: &aux, keys: []availability.Key{primaryKey, auxKey}}, nil
}

// ConfirmHold finalizes a pending hold: the reservation is persisted
// and the tables marked reserved. Confirming an already-finalized hold
// is an idempotent no-op reported through ErrAlreadyFinalized.
func (e *Engine) ConfirmHold(ctx context.Context, holdID string) (bool, error) {
	e.mu.Lock()
	h, ok := e.holds[holdID]
	if !ok {
		e.mu.Unlock()
		return false, faults.Invalidf("unknown hold %s", holdID)
	}
	if h.status != holdPending {
		e.mu.Unlock()
		return false, fmt.Errorf("%w: hold %s", faults.ErrAlreadyFinalized, holdID)
	}
	h.status = holdConfirmed
	e.mu.Unlock()

	if e.store != nil {
		res := &reservations.Reservation{
			PartySize:       h.request.PartySize,
			Date:            h.request.Date,
			Time:            h.request.Time,
			Shift:           h.request.Shift,
			ZonePreference:  h.request.ZonePreference,
			SpecialRequests: h.request.SpecialRequests,
			Channel:         h.request.Channel,
			Status:          reservations.StatusConfirmed,
			TableID:         &h.table.ID,
			UsesAux:         h.aux != nil,
			HoldID:          h.id,
		}
		if res.Channel == "" {
			res.Channel = reservations.ChannelWeb
		}
		if h.aux != nil {
			res.AuxTableID = &h.aux.ID
		}
		if err := e.store.CreateReservation(ctx, res); err != nil {
			e.mu.Lock()
			h.status = holdPending
			e.mu.Unlock()
			return false, fmt.Errorf("failed to persist reservation: %w", err)
		}
	}

	if e.tableStore != nil {
		if err := e.tableStore.UpdateStatus(ctx, h.table.ID, tables.TableStatusReserved); err != nil {
			e.logger.LogDegraded(ctx, "table_status", err)
		}
		if h.aux != nil {
			if err := e.tableStore.UpdateStatus(ctx, h.aux.ID, tables.TableStatusReserved); err != nil {
				e.logger.LogDegraded(ctx, "table_status", err)
			}
		}
	}

	return true, nil
}

// ReleaseHold undoes a pending hold and frees its occupancy keys.
// Releasing an already-finalized hold is an idempotent no-op reported
// through ErrAlreadyFinalized.
func (e *Engine) ReleaseHold(ctx context.Context, holdID string) (bool, error) {
	e.mu.Lock()
	h, ok := e.holds[holdID]
	if !ok {
		e.mu.Unlock()
		return false, faults.Invalidf("unknown hold %s", holdID)
	}
	if h.status != holdPending {
		e.mu.Unlock()
		return false, fmt.Errorf("%w: hold %s", faults.ErrAlreadyFinalized, holdID)
	}
	h.status = holdReleased
	e.mu.Unlock()

	for _, key := range h.keys {
		if err := e.ledger.Release(ctx, key); err != nil {
			e.logger.LogDegraded(ctx, "availability", err)
		}
	}
	return true, nil
}

// GetAvailable lists the free, unblocked tables for a date and shift.
func (e *Engine) GetAvailable(ctx context.Context, date string, shift tables.Shift, zone *tables.Zone) ([]uuid.UUID, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, faults.Invalidf("date %q is not a valid YYYY-MM-DD date", date)
	}
	if !shift.IsValid() {
		return nil, faults.Invalidf("unknown shift %q", shift)
	}

	var out []uuid.UUID
	for _, t := range e.catalog.List(zone) {
		if t.Status == tables.TableStatusBlocked {
			continue
		}
		free, err := e.ledger.IsFree(ctx, availability.Key{TableID: t.ID, Date: date, Shift: shift})
		if err != nil {
			return nil, err
		}
		if free {
			out = append(out, t.ID)
		}
	}
	return out, nil
}
