package verifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	infralogger "github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/entity"
)

const (
	// DefaultCrossRefTimeout bounds all entity lookups for one request.
	DefaultCrossRefTimeout = 2 * time.Second

	playerRefBonus   = 10
	teamRefBonus     = 10
	realisticFeeGain = 5
	crossRefWeight   = 0.1
	maxRealisticFee  = 300_000_000
	maxParallelNames = 8
)

// CrossRefAnalyzer checks that named players and teams exist and that the
// quoted fee is plausible.
type CrossRefAnalyzer struct {
	provider entity.Provider
	timeout  time.Duration
	log      infralogger.Logger
	// onTimeout is called when lookups exceed the deadline.
	onTimeout func()
}

// NewCrossRefAnalyzer creates a CrossRefAnalyzer. A nil provider treats
// every named entity as confirmed.
func NewCrossRefAnalyzer(provider entity.Provider, timeout time.Duration, log infralogger.Logger, onTimeout func()) *CrossRefAnalyzer {
	if timeout <= 0 {
		timeout = DefaultCrossRefTimeout
	}
	if onTimeout == nil {
		onTimeout = func() {}
	}
	return &CrossRefAnalyzer{
		provider:  provider,
		timeout:   timeout,
		log:       infralogger.OrNop(log),
		onTimeout: onTimeout,
	}
}

func (a *CrossRefAnalyzer) Name() string { return "crossref" }

func (a *CrossRefAnalyzer) Analyze(ctx context.Context, in *Input) Analysis {
	var out Analysis
	c := in.Request.Content

	players, teams, err := a.confirm(ctx, cleanNames(c.Players), cleanNames(c.Teams))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			a.onTimeout()
		}
		a.log.Warn("Entity lookup failed, skipping cross-reference",
			infralogger.String("url", in.Request.URL),
			infralogger.Error(err),
		)
		return Analysis{}
	}

	if len(players) > 0 {
		out.factor(domain.CategoryConsistency, domain.FactorPlayerReferences, playerRefBonus, crossRefWeight,
			"Players: "+strings.Join(players, ", "))
	}
	if len(teams) > 0 {
		out.factor(domain.CategoryConsistency, domain.FactorTeamReferences, teamRefBonus, crossRefWeight,
			"Teams: "+strings.Join(teams, ", "))
	}
	if fee := c.TransferFee; fee != nil && *fee > 0 && *fee < maxRealisticFee {
		out.factor(domain.CategoryConsistency, domain.FactorRealisticFee, realisticFeeGain, crossRefWeight/2,
			fmt.Sprintf("Fee of %.0f is within the realistic range", *fee))
	}

	return out
}

// confirm returns the names the provider recognises, preserving order.
func (a *CrossRefAnalyzer) confirm(ctx context.Context, players, teams []string) (confirmedPlayers, confirmedTeams []string, err error) {
	if a.provider == nil || len(players)+len(teams) == 0 {
		return players, teams, nil
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelNames)

	// Slots are read only after g.Wait returns. On the deadline branch they
	// are abandoned, and providers that ignore ctx finish in the background.
	playerOK := make([]bool, len(players))
	teamOK := make([]bool, len(teams))
	lookup := func(name string, slot *bool) {
		g.Go(func() error {
			ok, lookupErr := a.provider.Exists(gctx, name)
			if lookupErr != nil {
				return fmt.Errorf("lookup %q: %w", name, lookupErr)
			}
			*slot = ok
			return nil
		})
	}

	// g.Go blocks once the limit is reached, so scheduling happens off the
	// caller's goroutine too.
	done := make(chan error, 1)
	go func() {
		for i, name := range players {
			lookup(name, &playerOK[i])
		}
		for i, name := range teams {
			lookup(name, &teamOK[i])
		}
		done <- g.Wait()
	}()

	select {
	case err = <-done:
		if err != nil {
			return nil, nil, err
		}
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}

	return pick(players, playerOK), pick(teams, teamOK), nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func pick(names []string, ok []bool) []string {
	out := make([]string, 0, len(names))
	for i, n := range names {
		if ok[i] {
			out = append(out, n)
		}
	}
	return out
}
