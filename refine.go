package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const refinerInstructions = "You are a prompt refiner. Use advanced prompt engineering techniques to refine the user's prompt:\n"

// RefineResult pairs the caller's prompt with the completion returned by the
// upstream model.
type RefineResult struct {
	OriginalPrompt string `json:"original_prompt"`
	RefinedPrompt  string `json:"refined_prompt"`
}

// refinerClient calls the completion API. The credential and base URL are read
// once at startup; base URL is overridable for tests (OPENAI_BASE_URL).
type refinerClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newRefinerClientFromEnv() *refinerClient {
	base := os.Getenv("OPENAI_BASE_URL")
	if base == "" {
		base = "https://api.openai.com"
	}
	return &refinerClient{
		baseURL: strings.TrimRight(base, "/"),
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type completionRequest struct {
	Model            string  `json:"model"`
	Prompt           string  `json:"prompt"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	TopP             float64 `json:"top_p"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// RefinePrompt forwards prompt to the completion endpoint, prefixed with the
// refiner instructions. A non-2xx status and an empty completion are reported
// as distinct errors; no retries.
func (c *refinerClient) RefinePrompt(prompt string) (RefineResult, error) {
	body := completionRequest{
		Model:       "text-davinci-003",
		Prompt:      refinerInstructions + prompt,
		Temperature: 0.5,
		MaxTokens:   100,
		TopP:        1.0,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return RefineResult{}, err
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/completions", bytes.NewReader(payload))
	if err != nil {
		return RefineResult{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return RefineResult{}, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return RefineResult{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return RefineResult{}, fmt.Errorf("failed to refine prompt. OpenAI API status code: %d, response: %s", resp.StatusCode, string(raw))
	}
	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return RefineResult{}, err
	}
	refined := ""
	if len(parsed.Choices) > 0 {
		refined = strings.TrimSpace(parsed.Choices[0].Text)
	}
	if refined == "" {
		return RefineResult{}, fmt.Errorf("the OpenAI API returned an empty response for the refinement process")
	}
	return RefineResult{OriginalPrompt: prompt, RefinedPrompt: refined}, nil
}
