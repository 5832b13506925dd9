package nlsql

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const schemaPrompt = `You translate questions about Argo ocean floats into one PostgreSQL query.

Tables:
  floats(float_id text primary key, platform_number text, deploy_date timestamptz,
         region text, latitude double precision, longitude double precision,
         description text, notes text, properties jsonb)
  profiles(profile_id text, float_id text references floats, profile_time timestamptz,
           latitude double precision, longitude double precision,
           variable_name text, variable_value double precision, depth double precision)

variable_name holds values such as TEMP, PSAL, PRES, DOXY.
Latitude is positive north, longitude positive east.

Answer with a single read-only SELECT statement and nothing else.`

// Completer is the chat call the translator needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Translator turns a question into one guarded SELECT statement.
type Translator struct {
	completer Completer
}

func NewTranslator(c Completer) *Translator {
	return &Translator{completer: c}
}

// Translate asks the model for SQL, strips fences and runs Guard on it.
func (t *Translator) Translate(ctx context.Context, question string) (string, error) {
	answer, err := t.completer.Complete(ctx, schemaPrompt, question)
	if err != nil {
		return "", fmt.Errorf("nlsql: completion failed: %w", err)
	}
	return Guard(StripFences(answer))
}

// OpenAICompleter implements Completer with the chat completions API.
type OpenAICompleter struct {
	client openai.Client
	model  string
}

func NewOpenAICompleter(cfg Config) (*OpenAICompleter, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("nlsql: openai API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAICompleter{client: openai.NewClient(opts...), model: cfg.Model}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
