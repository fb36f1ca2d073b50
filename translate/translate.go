// Package translate sends mod descriptions to an OpenAI-compatible
// chat-completions endpoint and returns the translated text.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/minios-linux/aboutdesc/langmeta"
)

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.3
)

// ErrNoAPIKey is returned when a request is attempted without credentials.
var ErrNoAPIKey = errors.New("no API key configured")

// ---------------------------------------------------------------------------
// System prompts
// ---------------------------------------------------------------------------

// GenericSystemPrompt is used for languages without a dedicated entry in
// LanguagePrompts. {{targetLang}} is replaced with the English language name.
const GenericSystemPrompt = `You are a professional translator localizing descriptions of game mods for players.
Translate the user's text into {{targetLang}}.

Rules:
- Output only the translated text, with no preamble, quotes or commentary.
- Keep line breaks, bullet markers and blank lines where they are.
- Keep URLs, file paths, version numbers, mod names and other proper nouns unchanged.
- Keep rich-text tags such as <b>, <i>, <color=...> and [tags] exactly as they appear.
- Use terminology players of the game would recognize.`

// LanguagePrompts holds instructions tuned for specific target languages,
// keyed by canonical language code.
var LanguagePrompts = map[string]string{
	"zh-CN": GenericSystemPrompt + `
- Write natural Simplified Chinese (简体中文) and use full-width punctuation.
- Do not add spaces between Chinese characters.`,
	"zh-TW": GenericSystemPrompt + `
- Write natural Traditional Chinese (繁體中文) as used in Taiwan, with full-width punctuation.`,
	"ja": GenericSystemPrompt + `
- Use polite, neutral Japanese (です・ます調) and full-width punctuation.`,
	"ko": GenericSystemPrompt + `
- Use the polite 합니다 style common in Korean game localization.`,
	"ru": GenericSystemPrompt + `
- Address the reader with the formal "вы" and use «ёлочки» quotes.`,
	"de": GenericSystemPrompt + `
- Address the reader informally with "du", as is usual for German game communities.`,
	"fr": GenericSystemPrompt + `
- Use French typographic spacing before : ; ! ? and « » quotes.`,
	"es": GenericSystemPrompt + `
- Use neutral Spanish understood in both Spain and Latin America.`,
	"pt-BR": GenericSystemPrompt + `
- Use Brazilian Portuguese spelling and vocabulary.`,
}

// SystemPrompt returns the system instruction for lang. Unknown codes get
// GenericSystemPrompt with the language display name substituted.
func SystemPrompt(lang string) string {
	return systemPrompt(lang, nil)
}

func systemPrompt(lang string, overrides map[string]string) string {
	meta := langmeta.Resolve(lang)
	prompt := lookupPrompt(meta.Code, overrides)
	if prompt == "" {
		prompt = lookupPrompt(langmeta.Base(meta.Code), overrides)
	}
	if prompt == "" {
		prompt = overrides["default"]
	}
	if prompt == "" {
		prompt = GenericSystemPrompt
	}
	return strings.ReplaceAll(prompt, "{{targetLang}}", meta.Name)
}

func lookupPrompt(code string, overrides map[string]string) string {
	if p := overrides[code]; p != "" {
		return p
	}
	return LanguagePrompts[code]
}

// PromptsConfig is the on-disk form of user prompt overrides.
type PromptsConfig struct {
	Prompts map[string]string `json:"prompts"`
}

// LoadPrompts reads prompt overrides from a JSON file. A missing file yields
// an empty map and no error.
func LoadPrompts(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var cfg PromptsConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	if cfg.Prompts == nil {
		cfg.Prompts = map[string]string{}
	}
	return cfg.Prompts, nil
}

// WriteDefaultPrompts writes the built-in prompt table to path so users
// have a starting point for their own overrides.
func WriteDefaultPrompts(path string) error {
	prompts := map[string]string{"default": GenericSystemPrompt}
	for code, p := range LanguagePrompts {
		prompts[code] = p
	}
	data, err := json.MarshalIndent(PromptsConfig{Prompts: prompts}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling default prompts: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating prompts directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing default prompts file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the connection settings for the chat-completions service.
type Provider struct {
	// BaseURL is the API base URL, e.g. https://api.openai.com/v1.
	BaseURL string
	// APIKey is sent as a Bearer token.
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout. Zero means no client-side timeout.
	Timeout time.Duration
}

// Options controls the client behavior.
type Options struct {
	Provider Provider
	// Language is the target language code (e.g. "zh-CN", "de").
	Language string
	// Temperature is the sampling temperature; zero selects DefaultTemperature.
	Temperature float64
	// Prompts overrides entries of LanguagePrompts; the "default" key
	// replaces GenericSystemPrompt.
	Prompts map[string]string
	// OnLog emits debug messages when Verbose is set.
	OnLog   func(format string, args ...any)
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.Verbose && o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// Client translates text with a single chat-completions request per call.
type Client struct {
	opts   Options
	http   *http.Client
	prompt string
}

// NewClient builds a client. Empty provider fields fall back to the
// package defaults.
func NewClient(opts Options) *Client {
	if opts.Provider.BaseURL == "" {
		opts.Provider.BaseURL = DefaultBaseURL
	}
	if opts.Provider.Model == "" {
		opts.Provider.Model = DefaultModel
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	return &Client{
		opts:   opts,
		http:   makeHTTPClient(opts.Provider.Proxy, opts.Provider.Timeout),
		prompt: systemPrompt(opts.Language, opts.Prompts),
	}
}

// Prompt returns the resolved system instruction.
func (c *Client) Prompt() string { return c.prompt }

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string { return chatEndpoint(c.opts.Provider.BaseURL) }

// Translate returns the translated text, trimmed. Any failure is returned as
// an error; there are no retries.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	prov := c.opts.Provider
	if prov.APIKey == "" {
		return "", ErrNoAPIKey
	}

	body, err := buildOpenAIChatRequest(prov.Model, c.prompt, text, c.opts.Temperature)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	endpoint := c.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+prov.APIKey)

	c.opts.log("POST %s (model %s, %d chars)", endpoint, prov.Model, len(text))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	content, err := extractResponseText(respBody)
	if err != nil {
		return "", err
	}
	return cleanResponse(content), nil
}

// ---------------------------------------------------------------------------
// HTTP helpers
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func chatEndpoint(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}

func buildOpenAIChatRequest(model, systemPrompt, userPrompt string, temperature float64) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		Stream      bool    `json:"stream"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		Stream:      false,
	}
	return json.Marshal(req)
}

// extractResponseText returns choices[0].message.content, or the API error
// message if the body carries one.
func extractResponseText(body []byte) (string, error) {
	var raw struct {
		Error   json.RawMessage `json:"error"`
		Choices []struct {
			Message struct {
				Content *string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	if len(raw.Error) > 0 && string(raw.Error) != "null" {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw.Error, &apiErr) == nil && apiErr.Message != "" {
			return "", fmt.Errorf("API error: %s", apiErr.Message)
		}
		return "", fmt.Errorf("API error: %s", truncate(string(raw.Error), 200))
	}

	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("response has no choices: %s", truncate(string(body), 500))
	}
	content := raw.Choices[0].Message.Content
	if content == nil {
		return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
	}
	return *content, nil
}

var markdownCodeBlock = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n(.*?)\\s*```$")

// cleanResponse trims the reply and unwraps a single fenced code block.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if m := markdownCodeBlock.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}
	return s
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
