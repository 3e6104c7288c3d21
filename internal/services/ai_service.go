package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/ledger"
	"vitalog/internal/logger"
)

const geminiModel = "gemini-1.5-flash"

// AIService is the generative gateway. Gemini answers first; when an
// OpenAI key is configured, a failed Gemini call falls back to OpenAI.
// All three operations return profile-shaped data and carry no promise
// about latency or accuracy.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
}

func NewAIService(geminiAPIKey, openaiAPIKey string) (*AIService, error) {
	geminiClient, err := genai.NewClient(context.Background(), option.WithAPIKey(geminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var openaiClient *openai.Client
	if openaiAPIKey != "" {
		openaiClient = openai.NewClient(openaiAPIKey)
	}

	return &AIService{
		geminiClient: geminiClient,
		openaiClient: openaiClient,
	}, nil
}

// ExtractLabReport reads a photographed lab report and returns the
// analyte values that map onto the tracked nutrient keys.
func (s *AIService) ExtractLabReport(ctx context.Context, image []byte) (domain.NutrientProfile, error) {
	provider := "gemini"
	text, err := s.generateGemini(ctx, genai.ImageData("image/jpeg", image), genai.Text(labReportPrompt))
	if err != nil && s.openaiClient != nil {
		logger.Warn("Gemini lab report extraction failed, falling back to OpenAI", "error", err)
		provider = "openai"
		text, err = s.completeOpenAIVision(ctx, labReportPrompt, image)
	}
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, provider)
	}
	return parseProfile(text)
}

// LookupNutrition estimates the nutrient profile of one serving of the
// named food.
func (s *AIService) LookupNutrition(ctx context.Context, foodName string) (domain.NutrientProfile, error) {
	prompt := fmt.Sprintf(nutritionLookupPrompt, foodName)
	provider := "gemini"
	text, err := s.generateGemini(ctx, genai.Text(prompt))
	if err != nil && s.openaiClient != nil {
		logger.Warn("Gemini nutrition lookup failed, falling back to OpenAI", "error", err)
		provider = "openai"
		text, err = s.completeOpenAIText(ctx, prompt)
	}
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, provider)
	}
	return parseProfile(text)
}

// SuggestMenu proposes dishes for the rest of the day from the user's
// goal and what was already eaten.
func (s *AIService) SuggestMenu(ctx context.Context, req domain.MenuRequest) ([]domain.MenuSuggestion, error) {
	prompt := buildMenuPrompt(req)
	provider := "gemini"
	text, err := s.generateGemini(ctx, genai.Text(prompt))
	if err != nil && s.openaiClient != nil {
		logger.Warn("Gemini menu suggestion failed, falling back to OpenAI", "error", err)
		provider = "openai"
		text, err = s.completeOpenAIText(ctx, prompt)
	}
	if err != nil {
		return nil, apperrors.NewExternalAPIError(err, provider)
	}
	return parseSuggestions(text)
}

func (s *AIService) generateGemini(ctx context.Context, parts ...genai.Part) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type %T", resp.Candidates[0].Content.Parts[0])
	}
	return string(text), nil
}

func (s *AIService) completeOpenAIText(ctx context.Context, prompt string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4TurboPreview,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) completeOpenAIVision(ctx context.Context, prompt string, image []byte) (string, error) {
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4VisionPreview,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: prompt,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: imageURL,
							},
						},
					},
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}

func parseProfile(response string) (domain.NutrientProfile, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return nil, apperrors.New(apperrors.ErrorTypeExternal, "BAD_AI_RESPONSE", "No valid JSON found in response")
	}
	var profile domain.NutrientProfile
	if err := json.Unmarshal([]byte(jsonStr), &profile); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeExternal, "BAD_AI_RESPONSE", "Failed to parse response")
	}
	return profile, nil
}

type menuResponse struct {
	Suggestions []domain.MenuSuggestion `json:"suggestions"`
}

func parseSuggestions(response string) ([]domain.MenuSuggestion, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return nil, apperrors.New(apperrors.ErrorTypeExternal, "BAD_AI_RESPONSE", "No valid JSON found in response")
	}
	var parsed menuResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeExternal, "BAD_AI_RESPONSE", "Failed to parse response")
	}

	suggestions := make([]domain.MenuSuggestion, 0, len(parsed.Suggestions))
	for _, suggestion := range parsed.Suggestions {
		if strings.TrimSpace(suggestion.Name) == "" {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}
	if len(suggestions) == 0 {
		return nil, apperrors.New(apperrors.ErrorTypeExternal, "BAD_AI_RESPONSE", "No suggestions in response")
	}
	return suggestions, nil
}

const labReportPrompt = `You are a clinical laboratory assistant. You will read the photographed lab report and extract the values relevant for nutrition tracking.

TASK:
1. Find the analytes that map onto these keys: cholesterol, sodium, potassium, calcium, magnesium
2. Read each value exactly as printed, as a plain number
3. Provide the values in a specific JSON format

REQUIREMENTS:
- Use only values that are actually printed on the report
- Omit every key you cannot read with confidence
- Do not guess, estimate or invent values
- Ignore analytes that do not map onto the listed keys

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any markdown formatting, code blocks, or explanatory text
- Every value must be a plain number, for example:
  {
    "cholesterol": 180,
    "sodium": 140,
    "potassium": 4.5,
    "calcium": 9.4,
    "magnesium": 2.1
  }`

const nutritionLookupPrompt = `You are a nutrition database assistant. You will estimate the nutrition profile of one serving of the named food.

FOOD: %s

TASK:
1. Identify the food and a typical serving size, unless the name states an amount
2. Estimate its nutrition values from standard nutritional databases
3. Provide the values in a specific JSON format

REQUIREMENTS:
- Calories are kcal; cholesterol, sodium, potassium, calcium and magnesium are milligrams; all other values are grams
- Use 0 for nutrients the food does not contain
- Be realistic about portion sizes

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any markdown formatting, code blocks, or explanatory text
- The JSON must have these exact fields:
  {
    "calories": 123.45,
    "carbohydrates": 12.3,
    "sugars": 1.2,
    "fiber": 0.5,
    "protein": 3.4,
    "totalFat": 5.6,
    "saturatedFat": 1.2,
    "unsaturatedFat": 4.4,
    "cholesterol": 10,
    "sodium": 150,
    "potassium": 200,
    "calcium": 50,
    "magnesium": 20
  }`

func buildMenuPrompt(req domain.MenuRequest) string {
	goal := "balanced nutrition"
	if req.Profile != nil && req.Profile.Goal != "" {
		goal = req.Profile.Goal
	}
	return fmt.Sprintf(`You are a meal planning assistant. You will propose dishes for the rest of the day given what the user already ate.

CONTEXT:
- Goal: %s
- Eaten today: %.0f kcal, %.1f g protein, %.1f g fiber, %.1f g sugars, %.0f mg sodium
- Current day status: %s
- Daily limits: %.0f kcal, %.0f g protein, %.0f g fiber, %.0f g sugars, %.0f mg sodium

TASK:
1. Propose 3 dishes that move the rest of the day toward the limits without crossing them
2. Estimate the nutrition profile of each dish
3. Provide the result in a specific JSON format

REQUIREMENTS:
- Prefer common dishes a home cook can actually make
- Calories are kcal; cholesterol, sodium, potassium, calcium and magnesium are milligrams; all other values are grams
- Keep dish names short

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any markdown formatting, code blocks, or explanatory text
- The JSON must have this exact shape:
  {
    "suggestions": [
      {"name": "Dish name", "nutrients": {"calories": 123, "carbohydrates": 12, "sugars": 1, "fiber": 2, "protein": 10, "totalFat": 5, "saturatedFat": 1, "unsaturatedFat": 4, "cholesterol": 10, "sodium": 150, "potassium": 200, "calcium": 50, "magnesium": 20}}
    ]
  }`,
		goal,
		req.Totals.Value(domain.NutrientCalories),
		req.Totals.Value(domain.NutrientProtein),
		req.Totals.Value(domain.NutrientFiber),
		req.Totals.Value(domain.NutrientSugars),
		req.Totals.Value(domain.NutrientSodium),
		req.Status,
		ledger.Limits.Value(domain.NutrientCalories),
		ledger.Limits.Value(domain.NutrientProtein),
		ledger.Limits.Value(domain.NutrientFiber),
		ledger.Limits.Value(domain.NutrientSugars),
		ledger.Limits.Value(domain.NutrientSodium),
	)
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	// Try to find a JSON object (starting with '{' and ending with '}')
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
