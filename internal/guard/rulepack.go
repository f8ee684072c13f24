package guard

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"
)

type rawRulepack struct {
	Version   int       `yaml:"version"`
	Threshold float64   `yaml:"threshold"`
	Rules     []rawRule `yaml:"rules"`
}

type rawRule struct {
	ID      string   `yaml:"id"`
	Type    string   `yaml:"type"`
	Pattern string   `yaml:"pattern"`
	Phrases []string `yaml:"phrases"`
	Weight  float64  `yaml:"weight"`
}

type regexRule struct {
	ID      string
	Pattern *regexp.Regexp
	Weight  float64
}

type compiledPack struct {
	Threshold     float64
	RegexRules    []regexRule
	PhraseMatcher *ahocorasick.Matcher
	Phrases       []string
	PhraseWeights map[string]float64
}

func loadRulepacks(fsys fs.FS, dir string, logger *slog.Logger) []compiledPack {
	paths := findRulepackFiles(fsys, dir)
	if len(paths) == 0 {
		if logger != nil {
			logger.Warn("rulepacks_not_found", "dir", dir)
		}
		return nil
	}

	packs := make([]compiledPack, 0, len(paths))
	for _, filePath := range paths {
		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_read_failed", "path", filePath, "err", err)
			}
			continue
		}

		var raw rawRulepack
		if err := yaml.Unmarshal(data, &raw); err != nil {
			if logger != nil {
				logger.Warn("rulepack_parse_failed", "path", filePath, "err", err)
			}
			continue
		}

		pack, err := compileRulepack(raw)
		if err != nil {
			if logger != nil {
				logger.Warn("rulepack_compile_failed", "path", filePath, "err", err)
			}
			continue
		}
		packs = append(packs, pack)
	}

	return packs
}

func findRulepackFiles(fsys fs.FS, dir string) []string {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := fs.Glob(fsys, path.Join(dir, pattern))
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	return files
}

func compileRulepack(raw rawRulepack) (compiledPack, error) {
	if raw.Version == 0 {
		raw.Version = 1
	}
	if raw.Threshold == 0 {
		raw.Threshold = 0.7
	}

	var regexes []regexRule
	phrases := make([]string, 0)
	phraseWeights := make(map[string]float64)

	for _, rule := range raw.Rules {
		switch strings.ToLower(strings.TrimSpace(rule.Type)) {
		case "regex":
			if rule.ID == "" || rule.Pattern == "" {
				return compiledPack{}, fmt.Errorf("invalid regex rule")
			}
			pattern, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				return compiledPack{}, fmt.Errorf("compile rule %s: %w", rule.ID, err)
			}
			regexes = append(regexes, regexRule{ID: rule.ID, Pattern: pattern, Weight: rule.Weight})
		case "phrase":
			for _, phrase := range rule.Phrases {
				phrase = strings.ToLower(strings.TrimSpace(phrase))
				if phrase == "" {
					continue
				}
				if _, seen := phraseWeights[phrase]; !seen {
					phrases = append(phrases, phrase)
				}
				phraseWeights[phrase] = rule.Weight
			}
		default:
			return compiledPack{}, fmt.Errorf("unknown rule type: %s", rule.Type)
		}
	}

	pack := compiledPack{
		Threshold:     raw.Threshold,
		RegexRules:    regexes,
		Phrases:       phrases,
		PhraseWeights: phraseWeights,
	}
	if len(phrases) > 0 {
		pack.PhraseMatcher = ahocorasick.NewStringMatcher(phrases)
	}
	return pack, nil
}
