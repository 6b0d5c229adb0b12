package aitools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Pavlentiyys/digitalFest/internal/errors"
	"github.com/Pavlentiyys/digitalFest/internal/gateway"
	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// Defaults for image generation requests.
const (
	DefaultImageWidth  = 1024
	DefaultImageHeight = 1024
)

// historyWindow caps how many recent messages are replayed into the prompt.
const historyWindow = 15

// mentorInstruction primes the text endpoint to behave as a language tutor.
const mentorInstruction = `You are "English Mentor", a virtual English teacher.
Tasks:
1. First ask the user which language they prefer (offer English / Russian).
2. If they pick Russian, explain theory in Russian but give examples and final answers in English.
3. Always correct mistakes in the user's text in a friendly way: grammar, vocabulary, word order.
4. Give a short correction followed by the right version.
5. If the request is not about language learning, gently bring the focus back.
6. Keep raising sentence difficulty gradually.
Answer compactly. Start with a greeting and the language question.`

// IdentityProvider supplies the external account id for authenticated calls.
type IdentityProvider interface {
	TelegramID() string
}

// Service wraps the AI demo endpoints: speech transcription, the mentor
// chat and image generation. These endpoints only understand the old
// Authorization header convention.
type Service struct {
	gw  gateway.ClientInterface
	ids IdentityProvider
	log *logger.Logger
}

// NewService creates a Service.
func NewService(gw gateway.ClientInterface, ids IdentityProvider) *Service {
	return &Service{
		gw:  gw,
		ids: ids,
		log: logger.Default().WithPrefix("aitools"),
	}
}

// Role labels a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the mentor chat transcript.
type Message struct {
	Role    Role
	Content string
}

// Conversation holds the mentor chat transcript. The server is stateless,
// so each request replays a window of recent messages inside the prompt.
type Conversation struct {
	messages []Message
}

// NewConversation seeds the transcript with the mentor instruction and its
// opening line.
func NewConversation() *Conversation {
	return &Conversation{messages: []Message{
		{Role: RoleSystem, Content: mentorInstruction},
		{Role: RoleAssistant, Content: "Hi! Which language works best for you: English or Russian?"},
	}}
}

// Messages returns the transcript so far.
func (c *Conversation) Messages() []Message {
	return c.messages
}

// prompt flattens the instruction, the recent history window and the new
// user line into the single prompt string the endpoint expects.
func (c *Conversation) prompt(userText string) string {
	recent := c.messages
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	var b strings.Builder
	b.WriteString(mentorInstruction)
	b.WriteString("\n---\nHistory:\n")
	for _, m := range recent {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
	}
	fmt.Fprintf(&b, "USER: %s\nASSISTANT:", userText)
	return b.String()
}

type generateTextRequest struct {
	Prompt string `json:"prompt"`
}

type generateTextResponse struct {
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Chat sends one user line through the mentor and appends both sides to the
// transcript. On failure the user line is still recorded so a retry does not
// lose it.
func (s *Service) Chat(ctx context.Context, conv *Conversation, text string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("aitools")

	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.NewValidationError("text", "must not be empty")
	}

	prompt := conv.prompt(text)
	conv.messages = append(conv.messages, Message{Role: RoleUser, Content: text})

	res, err := s.gw.Do(ctx, http.MethodPost, "/qr-code/generate-text", generateTextRequest{Prompt: prompt}, gateway.LegacyHeaders(s.ids.TelegramID()))
	if err != nil {
		log.Error("mentor chat failed: %v", err)
		return "", err
	}

	var resp generateTextResponse
	res.Decode(&resp)
	reply := resp.Text
	if reply == "" {
		reply = "No text"
	}
	conv.messages = append(conv.messages, Message{Role: RoleAssistant, Content: reply})
	return reply, nil
}

// TranscribeResult is the transcription endpoint's reply.
type TranscribeResult struct {
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Transcribe uploads an audio recording as multipart form data under the
// "file" field and returns the recognized text.
func (s *Service) Transcribe(ctx context.Context, filename string, audio io.Reader) (*TranscribeResult, error) {
	log := logger.FromContext(ctx).WithPrefix("aitools")

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return nil, errors.NewMediaAccessError(err)
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	log.Info("uploading recording: %s (%d bytes)", filename, buf.Len())
	res, err := s.gw.DoBody(ctx, http.MethodPost, "/qr-code/transcribe", &buf, form.FormDataContentType(), gateway.LegacyHeaders(s.ids.TelegramID()))
	if err != nil {
		log.Error("transcription failed: %v", err)
		return nil, err
	}

	result := &TranscribeResult{}
	res.Decode(result)
	return result, nil
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ImageResult is the image generation endpoint's reply.
type ImageResult struct {
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

// GenerateImage asks the backend to render prompt. Non-positive dimensions
// fall back to the 1024x1024 defaults.
func (s *Service) GenerateImage(ctx context.Context, prompt string, width, height int) (*ImageResult, error) {
	log := logger.FromContext(ctx).WithPrefix("aitools")

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.NewValidationError("prompt", "must not be empty")
	}
	if width <= 0 {
		width = DefaultImageWidth
	}
	if height <= 0 {
		height = DefaultImageHeight
	}

	log.Info("generating image: %dx%d", width, height)
	res, err := s.gw.Do(ctx, http.MethodPost, "/image/generate", generateImageRequest{Prompt: prompt, Width: width, Height: height}, gateway.LegacyHeaders(s.ids.TelegramID()))
	if err != nil {
		log.Error("image generation failed: %v", err)
		return nil, err
	}

	result := &ImageResult{}
	if !res.Decode(result) || result.ImageURL == "" {
		return nil, errors.NewHTTPError(res.Status, "image response did not contain an imageUrl")
	}
	return result, nil
}
