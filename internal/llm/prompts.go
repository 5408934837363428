package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

// Prompt names in Langfuse prompt management.
const (
	PromptProfile = "sleep-coach-profile"
	PromptSession = "sleep-coach-session"
	PromptChat    = "sleep-coach-chat"
	PromptDream   = "sleep-coach-dream"
)

// PromptNames lists every prompt the gateway uses.
func PromptNames() []string {
	return []string{PromptProfile, PromptSession, PromptChat, PromptDream}
}

const plainTextRule = `IMPORTANT: Do not use asterisks (*) or markdown bolding in your response. Use plain text only.`

const defaultProfilePrompt = `You are an expert Sleep Scientist. Review this sleep assessment and write a personalized sleep solution plan.

User Profile:
- Age/Gender: {{.Profile.Age}}, {{.Profile.Gender}}
- Daily Caffeine: {{or .Profile.DailyCaffeine "Not recorded"}}
- Screen Time Before Bed: {{or .Profile.ScreenTime "Not recorded"}}
- Typical Routine: {{or (join .Profile.TypicalBedtimeRoutine ", ") "Not recorded"}}
- Average Sleep: {{or .Profile.AverageSleepDuration "Not recorded"}}
- Reported Issues: {{or (join .Profile.SleepIssues ", ") "None"}}
{{- if .Profile.SleepQuality}}
- Last Night: {{.Profile.SleepLastNightHours}}h {{.Profile.SleepLastNightMinutes}}m, quality {{.Profile.SleepQuality}}/10, feeling {{.Profile.CurrentFeeling}}
{{- end}}
{{- if eq .Profile.CaffeineYesterday "Yes"}}
- Caffeine Yesterday: {{.Profile.CaffeineTotalIntake}}, last cup {{.Profile.CaffeineLastCup}}
{{- end}}
{{- if eq .Profile.AlcoholYesterday "Yes"}}
- Alcohol Yesterday: {{.Profile.AlcoholCloseToBed}}
{{- end}}
{{- if eq .Profile.AteWithin3Hours "Yes"}}
- Late Meal: {{.Profile.MealType}}
{{- end}}
{{- if eq .Profile.WorkoutToday "Yes"}}
- Workout: {{.Profile.WorkoutIntensity}}, {{.Profile.WorkoutTiming}}
{{- end}}
{{- if .Profile.SleepEnvironment}}
- Sleep Environment: {{join .Profile.SleepEnvironment ", "}}
{{- end}}

Task:
Write a "Sleep Hygiene Prescription" as 3 concise bullet points.
1. Address their caffeine or screen time habits if they are working against them.
2. Suggest one change to their routine that targets the reported issues.
3. Recommend one long-term habit change.

Keep the tone professional and encouraging, medical but accessible.
` + plainTextRule

const defaultSessionPrompt = `Analyze this sleep session in exactly 3 concise sentences:
1. Evaluate the quality given the duration and score.
2. Explain how the day's factors (caffeine, activities) likely affected it.
3. Give one personalized, actionable tip for their chronic issues ({{.ChronicIssues}}).

{{if .Profile -}}
User Context:
- Age: {{.Profile.Age}}
- Gender: {{.Profile.Gender}}
- Typical Caffeine: {{or .Profile.DailyCaffeine "Not recorded"}}
- Typical Screen Time: {{or .Profile.ScreenTime "Not recorded"}}
- Routine: {{or (join .Profile.TypicalBedtimeRoutine ", ") "Not recorded"}}
- Avg Sleep: {{or .Profile.AverageSleepDuration "Not recorded"}}
- Issues: {{or (join .Profile.SleepIssues ", ") "None"}}
{{- else -}}
User Profile: Unknown
{{- end}}

Session Data:
- Duration: {{.Hours}}h {{.Minutes}}m
- Quality Score: {{.Session.Quality}}/100
- Dream Notes: {{or .Session.DreamNotes "None"}}
- Caffeine: {{or .Session.CaffeineIntake "Not recorded"}}
- Before Bed: {{or (join .Session.PreSleepActivity ", ") "Not recorded"}}

` + plainTextRule

const defaultChatPrompt = `You are Dr. Somnus, an expert AI Sleep Coach.
Help the user improve their sleep hygiene with evidence-based principles (CBT-I).
Be empathetic, encouraging and concise.
Keep every response to 2-3 sentences at most.
Do not use asterisks (*) or markdown bolding in your response.
{{- if .LastSession}}

Context - Last night's sleep: {{.LastSession.Quality}}/100 score, {{.LastSessionHours}}h duration.
{{- end}}`

const defaultDreamPrompt = `Interpret this dream from a psychological perspective (a mix of Jungian and Freudian ideas), keeping it light and insightful. Also extract 3 key themes.

Dream: "{{.Dream}}"`

var promptFuncs = template.FuncMap{
	"join": strings.Join,
}

// Prompts holds the parsed templates for each advisory operation.
type Prompts struct {
	profile *template.Template
	session *template.Template
	chat    *template.Template
	dream   *template.Template
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() *Prompts {
	return &Prompts{
		profile: template.Must(parsePrompt(PromptProfile, defaultProfilePrompt)),
		session: template.Must(parsePrompt(PromptSession, defaultSessionPrompt)),
		chat:    template.Must(parsePrompt(PromptChat, defaultChatPrompt)),
		dream:   template.Must(parsePrompt(PromptDream, defaultDreamPrompt)),
	}
}

func parsePrompt(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(promptFuncs).Option("missingkey=zero").Parse(text)
}

// PromptSource supplies prompt text by name.
type PromptSource interface {
	Load(ctx context.Context, name string) (string, error)
}

// LoadPrompts replaces each built-in template with the one from src when it
// loads and parses. Failures keep the built-in template.
func LoadPrompts(ctx context.Context, src PromptSource, logger *zap.Logger) *Prompts {
	p := DefaultPrompts()
	if src == nil {
		return p
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	slots := map[string]**template.Template{
		PromptProfile: &p.profile,
		PromptSession: &p.session,
		PromptChat:    &p.chat,
		PromptDream:   &p.dream,
	}
	for name, slot := range slots {
		text, err := src.Load(ctx, name)
		if err != nil {
			logger.Info("using built-in prompt", zap.String("prompt", name), zap.Error(err))
			continue
		}
		tmpl, err := parsePrompt(name, text)
		if err != nil {
			logger.Warn("remote prompt does not parse, using built-in", zap.String("prompt", name), zap.Error(err))
			continue
		}
		*slot = tmpl
	}
	return p
}

type sessionPromptData struct {
	Session       domain.SleepSession
	Profile       *domain.UserProfile
	Hours         int
	Minutes       int
	ChronicIssues string
}

type chatPromptData struct {
	LastSession      *domain.SleepSession
	LastSessionHours int
}

func (p *Prompts) Profile(profile domain.UserProfile) (string, error) {
	return render(p.profile, struct{ Profile domain.UserProfile }{profile})
}

func (p *Prompts) Session(session domain.SleepSession, profile *domain.UserProfile) (string, error) {
	issues := "none"
	if profile != nil && len(profile.SleepIssues) > 0 {
		issues = strings.Join(profile.SleepIssues, ",")
	}
	return render(p.session, sessionPromptData{
		Session:       session,
		Profile:       profile,
		Hours:         session.DurationMinutes / 60,
		Minutes:       session.DurationMinutes % 60,
		ChronicIssues: issues,
	})
}

func (p *Prompts) ChatSystem(lastSession *domain.SleepSession) (string, error) {
	data := chatPromptData{LastSession: lastSession}
	if lastSession != nil {
		data.LastSessionHours = lastSession.DurationMinutes / 60
	}
	return render(p.chat, data)
}

func (p *Prompts) Dream(text string) (string, error) {
	return render(p.dream, struct{ Dream string }{text})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
