package assist

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	domain "github.com/lexihelp/lexi-server/internal/domain/assist"
	"github.com/lexihelp/lexi-server/internal/gemini"
	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/tts"
)

// EmptyReplyText replaces a blank chat completion.
const EmptyReplyText = "Sorry, I couldn't generate a response."

const (
	verifyCorrectFeedback   = "Yes, that is correct. Now spell the word."
	verifyIncorrectFeedback = "Not quite. Look again and try saying the word."
)

// Service orchestrates the assist flows: writing help, document
// simplification, Q&A, chat, reading feedback, and object naming.
type Service struct {
	llm      gemini.LLM
	tts      tts.Synthesizer
	prompts  *domain.Prompts
	personas *domain.PersonaTable
	logger   *slog.Logger
}

// NewService wires the assist service.
func NewService(
	model gemini.LLM,
	synth tts.Synthesizer,
	prompts *domain.Prompts,
	personas *domain.PersonaTable,
	logger *slog.Logger,
) *Service {
	return &Service{
		llm:      model,
		tts:      synth,
		prompts:  prompts,
		personas: personas,
		logger:   logger,
	}
}

// WritingResult is the outcome of a writing assistance call.
type WritingResult struct {
	Message      string
	ImprovedText string
}

// ImproveWriting rewrites text, or the text inside an image, for easier
// reading. Text input wins when both are supplied.
func (s *Service) ImproveWriting(ctx context.Context, text string, image *llm.Media) (WritingResult, error) {
	switch {
	case strings.TrimSpace(text) != "":
		instruction, err := s.prompts.ImproveText(text)
		if err != nil {
			return WritingResult{}, err
		}
		return WritingResult{
			Message:      "Text improved successfully!",
			ImprovedText: s.llm.Invoke(ctx, nil, instruction),
		}, nil

	case image != nil && len(image.Data) > 0:
		instruction, err := s.prompts.ImproveImage()
		if err != nil {
			return WritingResult{}, err
		}
		parts := llm.BuildParts("", *image)
		return WritingResult{
			Message:      "Response generated successfully!",
			ImprovedText: s.llm.Invoke(ctx, parts, instruction),
		}, nil

	default:
		return WritingResult{}, httperror.NewInvalidInput("No text or image provided!")
	}
}

// ListSpellingMistakes points out misspelled words in text or in an image.
func (s *Service) ListSpellingMistakes(ctx context.Context, text string, image *llm.Media) (WritingResult, error) {
	switch {
	case strings.TrimSpace(text) != "":
		instruction, err := s.prompts.SpellingText(text)
		if err != nil {
			return WritingResult{}, err
		}
		return WritingResult{
			Message:      "Text analyzed successfully!",
			ImprovedText: s.llm.Invoke(ctx, nil, instruction),
		}, nil

	case image != nil && len(image.Data) > 0:
		instruction, err := s.prompts.SpellingImage()
		if err != nil {
			return WritingResult{}, err
		}
		parts := llm.BuildParts("", *image)
		return WritingResult{
			Message:      "Response generated successfully!",
			ImprovedText: s.llm.Invoke(ctx, parts, instruction),
		}, nil

	default:
		return WritingResult{}, httperror.NewInvalidInput("No text or image provided!")
	}
}

// SimplifyResult is a simplified document with its key vocabulary.
type SimplifyResult struct {
	SimplifiedText string
	ImportantWords []string
}

// SimplifyDocument rewrites extracted document text in plain language
// and pulls out the important words.
func (s *Service) SimplifyDocument(ctx context.Context, content string) (SimplifyResult, error) {
	instruction, err := s.prompts.Simplify(content)
	if err != nil {
		return SimplifyResult{}, err
	}
	simplified := domain.CleanMarkup(s.llm.Invoke(ctx, nil, instruction))

	wordsInstruction, err := s.prompts.ImportantWords(simplified)
	if err != nil {
		return SimplifyResult{}, err
	}
	words := domain.ExtractQuoted(domain.CleanMarkup(s.llm.Invoke(ctx, nil, wordsInstruction)))

	return SimplifyResult{SimplifiedText: simplified, ImportantWords: words}, nil
}

// NotesResult is generated study notes with vocabulary and mindmap points.
type NotesResult struct {
	Notes           string
	ImportantWords  []string
	ImportantPoints []string
}

// GenerateNotes builds study notes from document text, then derives the
// important words and mindmap points from the notes in parallel.
func (s *Service) GenerateNotes(ctx context.Context, content string) (NotesResult, error) {
	instruction, err := s.prompts.Notes(content)
	if err != nil {
		return NotesResult{}, err
	}
	notes := domain.CleanMarkup(s.llm.Invoke(ctx, nil, instruction))

	var words, points []string
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		wordsInstruction, err := s.prompts.ImportantWords(notes)
		if err != nil {
			return err
		}
		words = domain.ExtractQuoted(domain.CleanMarkup(s.llm.Invoke(groupCtx, nil, wordsInstruction)))
		return nil
	})
	group.Go(func() error {
		pointsInstruction, err := s.prompts.KeyPoints(notes)
		if err != nil {
			return err
		}
		points = domain.ExtractQuoted(domain.CleanMarkup(s.llm.Invoke(groupCtx, nil, pointsInstruction)))
		return nil
	})
	if err := group.Wait(); err != nil {
		return NotesResult{}, err
	}

	return NotesResult{Notes: notes, ImportantWords: words, ImportantPoints: points}, nil
}

// SpokenReply is model text paired with an optional audio artifact.
// AudioID stays nil when synthesis fails; the text always stands alone.
type SpokenReply struct {
	Response string
	AudioID  *string
}

// Ask answers a free-form question supplied as text, an image, audio,
// or text plus image.
func (s *Service) Ask(ctx context.Context, text string, image *llm.Media, audio *llm.Media) (SpokenReply, error) {
	hasText := strings.TrimSpace(text) != ""
	hasImage := image != nil && len(image.Data) > 0
	hasAudio := audio != nil && len(audio.Data) > 0

	var instruction string
	var parts []llm.ContentPart
	var err error

	switch {
	case hasText && hasImage:
		instruction, err = s.prompts.AskText(text)
		parts = llm.BuildParts("", *image)
	case hasText:
		instruction, err = s.prompts.AskText(text)
	case hasImage:
		instruction, err = s.prompts.AskImage()
		parts = llm.BuildParts("", *image)
	case hasAudio:
		instruction, err = s.prompts.AskAudio()
		parts = llm.BuildParts("", *audio)
	default:
		return SpokenReply{}, httperror.NewInvalidInput("No valid input provided!")
	}
	if err != nil {
		return SpokenReply{}, err
	}

	response := s.llm.Invoke(ctx, parts, instruction)
	return SpokenReply{Response: response, AudioID: s.synthesizeSoft(ctx, response, "", nil)}, nil
}

// Chat runs one persona-driven chat turn.
func (s *Service) Chat(
	ctx context.Context,
	page string,
	chatContext string,
	history []llm.HistoryEntry,
	message string,
	voiceID string,
) (SpokenReply, error) {
	if strings.TrimSpace(message) == "" {
		return SpokenReply{}, httperror.NewInvalidInput("No message provided")
	}

	composed := s.personas.ComposeChatPrompt(page, chatContext, history, message)
	response := strings.TrimSpace(s.llm.Invoke(ctx, nil, composed))
	if response == "" {
		response = EmptyReplyText
	}

	return SpokenReply{Response: response, AudioID: s.synthesizeSoft(ctx, response, voiceID, nil)}, nil
}

// FluencyResult is the reading coach's judgement of one recording.
type FluencyResult struct {
	Rating        int
	FeedbackText  string
	FeedbackAudio *string
}

// AssessFluency scores a reading recording and speaks the feedback.
func (s *Service) AssessFluency(ctx context.Context, audio llm.Media, speed float64, timeTaken float64) (FluencyResult, error) {
	instruction, err := s.prompts.Fluency(speed, timeTaken)
	if err != nil {
		return FluencyResult{}, err
	}

	feedback := s.llm.Invoke(ctx, llm.BuildParts("", audio), instruction)
	return FluencyResult{
		Rating:        domain.ExtractScore(feedback),
		FeedbackText:  feedback,
		FeedbackAudio: s.synthesizeSoft(ctx, feedback, "", nil),
	}, nil
}

// VerifyResult is the outcome of an object naming check.
type VerifyResult struct {
	Correct  bool
	Feedback string
	AudioID  *string
}

// VerifyObject checks whether a spoken answer names the expected object.
func (s *Service) VerifyObject(ctx context.Context, correctWord string, answer string) (VerifyResult, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	correctWord = strings.ToLower(strings.TrimSpace(correctWord))
	if answer == "" {
		return VerifyResult{}, httperror.NewInvalidInput("Please say something.")
	}

	instruction, err := s.prompts.Verify(correctWord, answer)
	if err != nil {
		return VerifyResult{}, err
	}

	verdict := strings.ToUpper(s.llm.Invoke(ctx, nil, instruction))
	correct := strings.Contains(verdict, "YES")

	feedback := verifyIncorrectFeedback
	if correct {
		feedback = verifyCorrectFeedback
	}

	return VerifyResult{
		Correct:  correct,
		Feedback: feedback,
		AudioID:  s.synthesizeSoft(ctx, feedback, "", nil),
	}, nil
}

// Speak synthesizes arbitrary text. Unlike the soft paths, failure here
// is an error the caller must surface.
func (s *Service) Speak(ctx context.Context, text string, voiceID string, settings *tts.VoiceSettings) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", httperror.NewInvalidInput("No text provided")
	}
	return s.tts.Synthesize(ctx, tts.Request{Text: text, VoiceID: voiceID, Settings: settings})
}

// synthesizeSoft narrates text when it can, returning nil on failure so
// the caller still delivers the text reply.
func (s *Service) synthesizeSoft(ctx context.Context, text string, voiceID string, settings *tts.VoiceSettings) *string {
	audioID, err := s.tts.Synthesize(ctx, tts.Request{Text: text, VoiceID: voiceID, Settings: settings})
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("tts_soft_failure", "err", err)
		}
		return nil
	}
	return &audioID
}
