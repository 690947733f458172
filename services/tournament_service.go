package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/storage"
)

const (
	archiveBatchSize   = 50
	archiveConcurrency = 4
)

type GenerateBracketInput struct {
	Name         string                    `json:"name"`
	Format       models.EliminationFormat  `json:"format"`
	Participants []models.Participant      `json:"participants"`
	Settings     models.GenerationSettings `json:"settings"`
}

type GeneratePoolsInput struct {
	Name         string                    `json:"name"`
	Format       models.FormatType         `json:"format"`
	Participants []models.Participant      `json:"participants"`
	Settings     models.GenerationSettings `json:"settings"`
}

type RotatingPartnersInput struct {
	Players   []models.Player `json:"players"`
	MaxRounds *int            `json:"max_rounds,omitempty"`
}

// AdvanceInput configures the playoff built from a pool stage. Zero values
// fall back to the stage's own settings and the service defaults.
type AdvanceInput struct {
	Name             string                    `json:"name"`
	AdvancementCount int                       `json:"advancement_count"`
	Settings         models.GenerationSettings `json:"settings"`
	// Force builds the playoff even when pool matches are still open.
	Force bool `json:"force"`
}

type BracketProgressView struct {
	SetID      string                 `json:"set_id"`
	Progress   brackets.Progress      `json:"progress"`
	Next       *models.BracketMatch   `json:"next,omitempty"`
	Ready      []*models.BracketMatch `json:"ready"`
	InProgress []*models.BracketMatch `json:"in_progress"`
	ChampionID *int                   `json:"champion_id,omitempty"`
}

type PoolStageView struct {
	Stage    *models.PoolStage  `json:"stage"`
	Progress brackets.Progress  `json:"progress"`
	Next     *models.PoolMatch  `json:"next,omitempty"`
	Playoff  *models.BracketSet `json:"playoff,omitempty"`
}

type StandingView struct {
	models.PoolStanding
	Name string `json:"name"`
}

type PoolStandingsView struct {
	PoolID    string         `json:"pool_id"`
	PoolName  string         `json:"pool_name"`
	Standings []StandingView `json:"standings"`
}

type MatchUpdatedPayload struct {
	SetID   string               `json:"set_id,omitempty"`
	StageID string               `json:"stage_id,omitempty"`
	PoolID  string               `json:"pool_id,omitempty"`
	Match   *models.BracketMatch `json:"match,omitempty"`
	Pool    *models.PoolMatch    `json:"pool_match,omitempty"`
}

type BracketCompletedPayload struct {
	SetID        string `json:"set_id"`
	ChampionID   *int   `json:"champion_id,omitempty"`
	RunnerUpID   *int   `json:"runner_up_id,omitempty"`
	ThirdPlaceID *int   `json:"third_place_id,omitempty"`
}

type TournamentService interface {
	ValidateParticipants(format models.FormatType, count int) brackets.ValidationResult
	GenerateBracket(ctx context.Context, input GenerateBracketInput) (*models.BracketSet, error)
	GeneratePools(ctx context.Context, input GeneratePoolsInput) (*models.PoolStage, error)
	ScheduleRotatingPartners(input RotatingPartnersInput) ([]brackets.RotatingMatch, error)

	GetBracketSet(ctx context.Context, setID string) (*models.BracketSet, error)
	GetBracketProgress(ctx context.Context, setID string) (*BracketProgressView, error)
	StartBracketMatch(ctx context.Context, setID, matchID string) (*models.BracketMatch, error)
	RecordBracketResult(ctx context.Context, setID, matchID string, score models.Score) (*models.BracketSet, error)

	GetPoolStage(ctx context.Context, stageID string) (*PoolStageView, error)
	GetStandings(ctx context.Context, stageID string) ([]PoolStandingsView, error)
	StartPoolMatch(ctx context.Context, stageID, poolID, matchID string) (*models.PoolMatch, error)
	RecordPoolResult(ctx context.Context, stageID, poolID, matchID string, score models.Score) (*models.PoolStage, error)
	AdvancePools(ctx context.Context, stageID string, input AdvanceInput) (*models.BracketSet, error)

	ArchiveCompleted(ctx context.Context) (int, error)
}

type tournamentService struct {
	bracketRepo repositories.BracketSetRepository
	poolRepo    repositories.PoolStageRepository
	uploader    storage.FileUploader
	broadcaster realtime.Broadcaster
	defaults    models.GenerationSettings
	logger      *slog.Logger

	now func() time.Time
	rng brackets.Shuffler
	ids brackets.IDGenerator
}

// NewTournamentService wires the engine to persistence and live updates.
// uploader and broadcaster may be nil.
func NewTournamentService(
	bracketRepo repositories.BracketSetRepository,
	poolRepo repositories.PoolStageRepository,
	uploader storage.FileUploader,
	broadcaster realtime.Broadcaster,
	defaults models.GenerationSettings,
	logger *slog.Logger,
) TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &tournamentService{
		bracketRepo: bracketRepo,
		poolRepo:    poolRepo,
		uploader:    uploader,
		broadcaster: broadcaster,
		defaults:    defaults,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
		rng:         brackets.DefaultShuffler,
		ids:         brackets.NewUUID,
	}
}

func (s *tournamentService) ValidateParticipants(format models.FormatType, count int) brackets.ValidationResult {
	return brackets.ValidateParticipantCount(format, count)
}

func (s *tournamentService) GenerateBracket(ctx context.Context, input GenerateBracketInput) (*models.BracketSet, error) {
	format := input.Format
	if format == "" {
		format = models.FormatSingleElimination
	}
	generator, err := brackets.NewGenerator(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	participants, err := prepareParticipants(input.Participants)
	if err != nil {
		return nil, err
	}

	set, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Name:         input.Name,
		Participants: participants,
		Settings:     mergeSettings(input.Settings, s.defaults),
		Rand:         s.rng,
		IDs:          s.ids,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) {
			return nil, fmt.Errorf("%w: %v", ErrNotEnoughParticipants, err)
		}
		return nil, fmt.Errorf("failed to generate %s bracket: %w", generator.GetName(), err)
	}

	if err := s.bracketRepo.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to save bracket set: %w", handleRepositoryError(err, ErrBracketNotFound))
	}
	s.logger.InfoContext(ctx, "bracket set generated",
		slog.String("set_id", set.ID),
		slog.String("format", string(set.Format)),
		slog.Int("participants", len(participants)),
		slog.Int("brackets", len(set.Brackets)))
	return set, nil
}

func (s *tournamentService) GeneratePools(ctx context.Context, input GeneratePoolsInput) (*models.PoolStage, error) {
	format := input.Format
	if format == "" {
		format = models.FormatTypePoolPlay
	}
	if format != models.FormatTypePoolPlay && format != models.FormatTypeRoundRobin {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	participants, err := prepareParticipants(input.Participants)
	if err != nil {
		return nil, err
	}
	if check := brackets.ValidateParticipantCount(format, len(participants)); !check.Valid {
		return nil, fmt.Errorf("%w: %s", ErrNotEnoughParticipants, check.Message)
	}

	settings := mergeSettings(input.Settings, s.defaults)
	seeded := brackets.SeedField(participants, settings.Seeding, s.rng)
	opts := brackets.PoolOptions{
		PoolCount:        settings.PoolCount,
		PoolSize:         settings.PoolSize,
		AdvancementCount: settings.AdvancementCount,
		Tiebreakers:      settings.Tiebreakers,
		MaxRounds:        settings.MaxRounds,
		IDs:              s.ids,
	}

	stage := &models.PoolStage{
		ID:               s.ids(),
		Name:             input.Name,
		AdvancementCount: settings.AdvancementCount,
		Tiebreakers:      settings.Tiebreakers,
	}
	if format == models.FormatTypeRoundRobin {
		stage.Pools = []models.Pool{brackets.BuildRoundRobinEvent(seeded, opts)}
		if stage.Name == "" {
			stage.Name = "Round Robin"
		}
	} else {
		stage.Pools = brackets.BuildPools(seeded, opts)
		if stage.Name == "" {
			stage.Name = "Pool Play"
		}
	}

	if err := s.poolRepo.Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to save pool stage: %w", handleRepositoryError(err, ErrPoolStageNotFound))
	}
	s.logger.InfoContext(ctx, "pool stage generated",
		slog.String("stage_id", stage.ID),
		slog.String("format", string(format)),
		slog.Int("pools", len(stage.Pools)),
		slog.Int("participants", len(participants)))
	return stage, nil
}

func (s *tournamentService) ScheduleRotatingPartners(input RotatingPartnersInput) ([]brackets.RotatingMatch, error) {
	if len(input.Players) < 4 {
		return nil, fmt.Errorf("%w: rotating partners needs at least 4 players, got %d", ErrNotEnoughParticipants, len(input.Players))
	}
	seen := make(map[int]bool, len(input.Players))
	for _, p := range input.Players {
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateParticipant, p.ID)
		}
		seen[p.ID] = true
	}
	return brackets.ScheduleRotatingPartners(input.Players, input.MaxRounds), nil
}

func (s *tournamentService) GetBracketSet(ctx context.Context, setID string) (*models.BracketSet, error) {
	set, err := s.bracketRepo.GetByID(ctx, setID)
	if err != nil {
		return nil, handleRepositoryError(err, ErrBracketNotFound)
	}
	return set, nil
}

func (s *tournamentService) GetBracketProgress(ctx context.Context, setID string) (*BracketProgressView, error) {
	set, err := s.GetBracketSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	view := &BracketProgressView{
		SetID:      set.ID,
		Progress:   brackets.BracketProgress(set.Brackets...),
		Next:       brackets.NextMatch(set.Brackets...),
		Ready:      brackets.ReadyMatches(set.Brackets...),
		InProgress: brackets.InProgressMatches(set.Brackets...),
	}
	if decider := set.Decider(); decider != nil {
		view.ChampionID = decider.ChampionID
	}
	return view, nil
}

func (s *tournamentService) StartBracketMatch(ctx context.Context, setID, matchID string) (*models.BracketMatch, error) {
	set, err := s.bracketRepo.Update(ctx, setID, func(set *models.BracketSet) (*models.BracketSet, error) {
		_, m := set.FindMatch(matchID)
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		if !m.Ready() {
			return nil, fmt.Errorf("%w: %s is %s", ErrMatchNotReady, matchID, m.Status)
		}
		return brackets.StartSetMatch(set, matchID), nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, ErrBracketNotFound)
	}
	_, m := set.FindMatch(matchID)
	s.broadcast(realtime.BracketRoom(setID), realtime.TypeMatchUpdated, MatchUpdatedPayload{SetID: setID, Match: m})
	return m, nil
}

func (s *tournamentService) RecordBracketResult(ctx context.Context, setID, matchID string, score models.Score) (*models.BracketSet, error) {
	if brackets.WinningSide(score) == 0 {
		return nil, ErrInvalidScore
	}
	wasComplete := false
	set, err := s.bracketRepo.Update(ctx, setID, func(set *models.BracketSet) (*models.BracketSet, error) {
		_, m := set.FindMatch(matchID)
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		if m.IsBye || m.Status == models.StatusCanceled || !m.Slot1.Filled() || !m.Slot2.Filled() {
			return nil, fmt.Errorf("%w: %s is %s", ErrMatchNotReady, matchID, m.Status)
		}
		wasComplete = set.IsComplete()
		return brackets.RecordSetResult(set, matchID, score, s.now()), nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, ErrBracketNotFound)
	}

	_, m := set.FindMatch(matchID)
	s.logger.InfoContext(ctx, "bracket result recorded",
		slog.String("set_id", setID),
		slog.String("match_id", matchID),
		slog.Any("winner_id", m.WinnerID))
	room := realtime.BracketRoom(setID)
	s.broadcast(room, realtime.TypeMatchUpdated, MatchUpdatedPayload{SetID: setID, Match: m})

	if !wasComplete && set.IsComplete() {
		decider := set.Decider()
		s.logger.InfoContext(ctx, "bracket set completed", slog.String("set_id", setID), slog.Any("champion_id", decider.ChampionID))
		s.broadcast(room, realtime.TypeBracketCompleted, BracketCompletedPayload{
			SetID:        setID,
			ChampionID:   decider.ChampionID,
			RunnerUpID:   decider.RunnerUpID,
			ThirdPlaceID: set.Brackets[0].ThirdPlaceID,
		})
	}
	return set, nil
}

func (s *tournamentService) GetPoolStage(ctx context.Context, stageID string) (*PoolStageView, error) {
	stage, err := s.poolRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, ErrPoolStageNotFound)
	}
	view := &PoolStageView{
		Stage:    stage,
		Progress: brackets.PoolProgress(stage.Pools...),
		Next:     brackets.NextPoolMatch(stage.Pools...),
	}
	if stage.PlayoffSetID != "" {
		playoff, err := s.bracketRepo.GetByID(ctx, stage.PlayoffSetID)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load playoff for pool stage",
				slog.String("stage_id", stageID),
				slog.String("playoff_set_id", stage.PlayoffSetID),
				slog.Any("error", err))
		} else {
			view.Playoff = playoff
		}
	}
	return view, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, stageID string) ([]PoolStandingsView, error) {
	stage, err := s.poolRepo.GetByID(ctx, stageID)
	if err != nil {
		return nil, handleRepositoryError(err, ErrPoolStageNotFound)
	}
	out := make([]PoolStandingsView, len(stage.Pools))
	for i, pool := range stage.Pools {
		out[i] = PoolStandingsView{PoolID: pool.ID, PoolName: pool.Name, Standings: standingViews(pool)}
	}
	return out, nil
}

// updatePool runs fn on one pool of a stage inside the stage's serialized update.
func (s *tournamentService) updatePool(ctx context.Context, stageID, poolID, matchID string, fn func(pool models.Pool, m models.PoolMatch) (models.Pool, error)) (*models.PoolStage, error) {
	stage, err := s.poolRepo.Update(ctx, stageID, func(stage *models.PoolStage) (*models.PoolStage, error) {
		i := stage.PoolIndex(poolID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrPoolNotFound, poolID)
		}
		j := stage.Pools[i].MatchIndex(matchID)
		if j < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		pool, err := fn(stage.Pools[i], stage.Pools[i].Matches[j])
		if err != nil {
			return nil, err
		}
		stage.Pools[i] = pool
		return stage, nil
	})
	if err != nil {
		return nil, handleRepositoryError(err, ErrPoolStageNotFound)
	}
	return stage, nil
}

func poolMatch(stage *models.PoolStage, poolID, matchID string) *models.PoolMatch {
	i := stage.PoolIndex(poolID)
	if i < 0 {
		return nil
	}
	j := stage.Pools[i].MatchIndex(matchID)
	if j < 0 {
		return nil
	}
	return &stage.Pools[i].Matches[j]
}

func (s *tournamentService) StartPoolMatch(ctx context.Context, stageID, poolID, matchID string) (*models.PoolMatch, error) {
	stage, err := s.updatePool(ctx, stageID, poolID, matchID, func(pool models.Pool, m models.PoolMatch) (models.Pool, error) {
		if m.Status != models.StatusScheduled && m.Status != models.StatusInProgress {
			return pool, fmt.Errorf("%w: %s is %s", ErrMatchNotReady, matchID, m.Status)
		}
		return brackets.StartPoolMatch(pool, matchID), nil
	})
	if err != nil {
		return nil, err
	}
	m := poolMatch(stage, poolID, matchID)
	s.broadcast(realtime.PoolRoom(stageID), realtime.TypeMatchUpdated, MatchUpdatedPayload{StageID: stageID, PoolID: poolID, Pool: m})
	return m, nil
}

func (s *tournamentService) RecordPoolResult(ctx context.Context, stageID, poolID, matchID string, score models.Score) (*models.PoolStage, error) {
	if brackets.WinningSide(score) == 0 {
		return nil, ErrInvalidScore
	}
	stage, err := s.updatePool(ctx, stageID, poolID, matchID, func(pool models.Pool, m models.PoolMatch) (models.Pool, error) {
		if m.Status == models.StatusCanceled {
			return pool, fmt.Errorf("%w: %s is canceled", ErrMatchNotReady, matchID)
		}
		return brackets.RecordPoolResult(pool, matchID, score, s.now()), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pool result recorded",
		slog.String("stage_id", stageID),
		slog.String("pool_id", poolID),
		slog.String("match_id", matchID))
	room := realtime.PoolRoom(stageID)
	s.broadcast(room, realtime.TypeMatchUpdated, MatchUpdatedPayload{StageID: stageID, PoolID: poolID, Pool: poolMatch(stage, poolID, matchID)})
	pool := stage.Pools[stage.PoolIndex(poolID)]
	s.broadcast(room, realtime.TypeStandingsUpdated, PoolStandingsView{PoolID: pool.ID, PoolName: pool.Name, Standings: standingViews(pool)})
	return stage, nil
}

func standingViews(pool models.Pool) []StandingView {
	names := displayNames(pool.Participants)
	rows := make([]StandingView, len(pool.Standings))
	for i, st := range pool.Standings {
		rows[i] = StandingView{PoolStanding: st, Name: names[st.ParticipantID]}
	}
	return rows
}

func (s *tournamentService) AdvancePools(ctx context.Context, stageID string, input AdvanceInput) (*models.BracketSet, error) {
	settings := mergeSettings(input.Settings, s.defaults)
	playoff, err := s.poolRepo.AttachPlayoff(ctx, stageID, func(stage *models.PoolStage) (*models.BracketSet, error) {
		if !input.Force && !brackets.PoolProgress(stage.Pools...).IsComplete {
			return nil, ErrPoolsIncomplete
		}
		count := input.AdvancementCount
		if count <= 0 {
			count = stage.AdvancementCount
		}
		advancers := len(brackets.CollectAdvancers(stage.Pools, count))
		if check := brackets.ValidateParticipantCount(models.FormatType(settings.PlayoffFormat), advancers); !check.Valid {
			return nil, fmt.Errorf("%w: %s", ErrNotEnoughParticipants, check.Message)
		}
		return brackets.BuildPlayoff(stage.Pools, brackets.PlayoffOptions{
			BracketOptions: brackets.BracketOptions{
				Name:         input.Name,
				BestOf:       settings.BestOf,
				FinalsBestOf: settings.FinalsBestOf,
				IDs:          s.ids,
			},
			Format:           settings.PlayoffFormat,
			AdvancementCount: count,
			CrossPool:        settings.CrossPoolSeeding,
			ThirdPlace:       settings.ThirdPlaceMatch,
			Consolation:      settings.Consolation,
		}), nil
	})
	switch {
	case errors.Is(err, repositories.ErrPlayoffAlreadyAttached):
		return nil, ErrPlayoffExists
	case err != nil:
		return nil, handleRepositoryError(err, ErrPoolStageNotFound)
	}

	s.logger.InfoContext(ctx, "playoff generated from pool stage",
		slog.String("stage_id", stageID),
		slog.String("set_id", playoff.ID),
		slog.Int("participants", len(playoff.Brackets[0].Participants)))
	s.broadcast(realtime.PoolRoom(stageID), realtime.TypePlayoffCreated, map[string]string{"stage_id": stageID, "set_id": playoff.ID})
	return playoff, nil
}

// ArchiveCompleted uploads every completed, not yet archived bracket set as
// JSON and marks it archived. Uploads run concurrently; the first failure is
// returned after the rest finish.
func (s *tournamentService) ArchiveCompleted(ctx context.Context) (int, error) {
	if s.uploader == nil {
		return 0, ErrArchivingDisabled
	}
	sets, err := s.bracketRepo.ListArchivable(ctx, archiveBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list archivable bracket sets: %w", err)
	}

	var archived atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(archiveConcurrency)
	for _, set := range sets {
		g.Go(func() error {
			body, err := json.Marshal(set)
			if err != nil {
				return fmt.Errorf("failed to encode bracket set %s: %w", set.ID, err)
			}
			key := storage.BracketArchiveKey(set.ID)
			result, err := s.uploader.Upload(gCtx, key, "application/json", bytes.NewReader(body))
			if err != nil {
				s.logger.ErrorContext(gCtx, "bracket archive upload failed", slog.String("set_id", set.ID), slog.Any("error", err))
				return err
			}
			if err := s.bracketRepo.MarkArchived(gCtx, set.ID, s.now()); err != nil {
				return fmt.Errorf("failed to mark bracket set %s archived: %w", set.ID, err)
			}
			archived.Add(1)
			s.logger.InfoContext(gCtx, "bracket set archived", slog.String("set_id", set.ID), slog.String("location", result.Location))
			return nil
		})
	}
	err = g.Wait()
	return int(archived.Load()), err
}

func (s *tournamentService) broadcast(room, msgType string, payload any) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastToRoom(room, realtime.Message{Type: msgType, Payload: payload, RoomID: room})
}
