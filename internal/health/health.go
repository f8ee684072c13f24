package health

import (
	"context"
	"os"
	"time"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/session"
)

var startTime = time.Now()

// Component is one health check entry.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response is the health response body.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Collect gathers component health. Deep checks touch the session
// store; shallow checks only inspect configuration so liveness never
// flaps on an external dependency.
func Collect(ctx context.Context, cfg *config.Config, store *session.Store, deep bool) Response {
	components := map[string]Component{
		"app":           buildAppStatus(),
		"gemini":        buildGeminiStatus(cfg),
		"elevenlabs":    buildElevenStatus(cfg),
		"artifacts":     buildArtifactStatus(cfg),
		"session_store": buildSessionStoreStatus(ctx, cfg, store, deep),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{Status: overall, Components: components}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func buildGeminiStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	defaultModel := ""
	judgeModel := ""
	timeoutSeconds := 0

	if cfg != nil {
		apiKeyPresent = cfg.Gemini.PrimaryKey() != ""
		defaultModel = cfg.Gemini.DefaultModel
		judgeModel = cfg.Gemini.ModelForTask("judge")
		timeoutSeconds = cfg.Gemini.TimeoutSeconds
	}

	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"default_model":   defaultModel,
			"judge_model":     judgeModel,
			"timeout_seconds": timeoutSeconds,
		},
	}
}

func buildElevenStatus(cfg *config.Config) Component {
	apiKeyPresent := false
	voiceConfigured := false
	if cfg != nil {
		apiKeyPresent = cfg.Eleven.APIKey != ""
		voiceConfigured = cfg.Eleven.VoiceID != ""
	}

	// Synthesis is optional: replies degrade to text-only without it.
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"api_key_present":  apiKeyPresent,
			"voice_configured": voiceConfigured,
		},
	}
}

func buildArtifactStatus(cfg *config.Config) Component {
	dir := ""
	if cfg != nil {
		dir = cfg.Artifacts.Dir
	}

	status := "ok"
	writable := false
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		writable = true
	} else {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"dir":      dir,
			"writable": writable,
		},
	}
}

func buildSessionStoreStatus(ctx context.Context, cfg *config.Config, store *session.Store, deep bool) Component {
	storeEnabled := false
	sessionTTL := 0
	if cfg != nil {
		storeEnabled = cfg.SessionStore.Enabled
		sessionTTL = cfg.Session.SessionTTLMinutes
	}
	if ctx == nil {
		ctx = context.Background()
	}

	connected := false
	sessionCount := 0
	checkErr := ""
	if deep && store != nil {
		checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := store.Ping(checkCtx); err != nil {
			checkErr = err.Error()
		} else {
			connected = true
			count, err := store.Count(checkCtx)
			if err != nil {
				checkErr = err.Error()
			} else {
				sessionCount = count
			}
		}
	}

	status := "ok"
	if deep && storeEnabled && !connected {
		status = "degraded"
	}

	detail := map[string]any{
		"store_enabled":       storeEnabled,
		"store_connected":     connected,
		"session_count":       sessionCount,
		"session_ttl_minutes": sessionTTL,
		"deep_checked":        deep,
	}
	if checkErr != "" {
		detail["check_error"] = checkErr
	}

	return Component{Status: status, Detail: detail}
}
