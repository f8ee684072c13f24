package guard

import (
	"embed"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lexihelp/lexi-server/internal/cache"
	"github.com/lexihelp/lexi-server/internal/config"
)

//go:embed rulepacks/*.yml
var rulepackFS embed.FS

// Guard screens user input before it reaches the model.
type Guard interface {
	Evaluate(input string) Evaluation
	EnsureSafe(input string) error
	IsMalicious(input string) bool
}

// ContentGuard scores input against embedded rulepacks.
type ContentGuard struct {
	cfg    *config.Config
	logger *slog.Logger
	packs  []compiledPack
	cache  *cache.TTLCache[string, Evaluation]
	group  singleflight.Group
}

var _ Guard = (*ContentGuard)(nil)

// NewGuard creates a content guard from the embedded rulepacks.
func NewGuard(cfg *config.Config, logger *slog.Logger) (*ContentGuard, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	cacheTTL := time.Duration(cfg.Guard.CacheTTLSeconds) * time.Second
	guard := &ContentGuard{
		cfg:    cfg,
		logger: logger,
		cache:  cache.NewTTLCache[string, Evaluation](cfg.Guard.CacheMaxSize, cacheTTL),
	}

	if cfg.Guard.Enabled {
		guard.packs = loadRulepacks(rulepackFS, "rulepacks", logger)
		if logger != nil {
			logger.Info("guard_ready", "packs", len(guard.packs), "threshold", guard.threshold())
		}
	}

	return guard, nil
}

// Evaluate scores the input. A disabled guard scores everything safe.
func (g *ContentGuard) Evaluate(input string) Evaluation {
	if g == nil || g.cfg == nil || !g.cfg.Guard.Enabled {
		return Evaluation{Score: 0, Hits: nil, Threshold: math.Inf(1)}
	}

	if cached, ok := g.cache.Get(input); ok {
		return cached
	}

	value, _, _ := g.group.Do(input, func() (any, error) {
		result := g.evaluateInternal(input)
		g.cache.Set(input, result)
		return result, nil
	})

	if evaluation, ok := value.(Evaluation); ok {
		return evaluation
	}
	return Evaluation{Score: 0, Hits: nil, Threshold: g.threshold()}
}

// EnsureSafe returns a BlockedError for malicious input.
func (g *ContentGuard) EnsureSafe(input string) error {
	evaluation := g.Evaluate(input)
	if evaluation.Malicious() {
		if g.logger != nil {
			g.logger.Warn("guard_blocked",
				"score", evaluation.Score,
				"threshold", evaluation.Threshold,
				"input", trimForLog(input),
			)
		}
		return &BlockedError{Score: evaluation.Score, Threshold: evaluation.Threshold}
	}
	return nil
}

// IsMalicious reports whether the input would be blocked.
func (g *ContentGuard) IsMalicious(input string) bool {
	return g.Evaluate(input).Malicious()
}

func (g *ContentGuard) threshold() float64 {
	if g.cfg == nil {
		return 0.7
	}
	if g.cfg.Guard.Threshold > 0 {
		return g.cfg.Guard.Threshold
	}

	maxThreshold := 0.0
	for _, pack := range g.packs {
		if pack.Threshold > maxThreshold {
			maxThreshold = pack.Threshold
		}
	}
	if maxThreshold > 0 {
		return maxThreshold
	}
	return 0.7
}

func (g *ContentGuard) evaluateInternal(input string) Evaluation {
	threshold := g.threshold()
	score, hits := g.evaluatePacks(input)
	return Evaluation{Score: score, Hits: hits, Threshold: threshold}
}

func (g *ContentGuard) evaluatePacks(text string) (float64, []Match) {
	total := 0.0
	hits := make([]Match, 0)
	textLower := strings.ToLower(text)

	for _, pack := range g.packs {
		for _, rule := range pack.RegexRules {
			if rule.Pattern.MatchString(text) {
				total += rule.Weight
				hits = append(hits, Match{ID: rule.ID, Weight: rule.Weight})
			}
		}

		if pack.PhraseMatcher == nil {
			continue
		}
		matches := pack.PhraseMatcher.MatchThreadSafe([]byte(textLower))
		for _, index := range matches {
			if index < 0 || index >= len(pack.Phrases) {
				continue
			}
			phrase := pack.Phrases[index]
			weight := pack.PhraseWeights[phrase]
			if weight <= 0 {
				continue
			}
			total += weight
			hits = append(hits, Match{ID: "phrase:" + phrase, Weight: weight})
		}
	}

	return total, hits
}

func trimForLog(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 50 {
		return value
	}
	return value[:50]
}
