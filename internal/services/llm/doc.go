// Package llm provides a small client for OpenAI-compatible chat completion
// endpoints, built on github.com/sashabaranov/go-openai.
//
// The translator uses Client.Complete to turn transcript chunks into the
// target language, and preflight uses Client.HealthCheck to verify the API key
// and model before a run.
//
// # Configuration
//
// Requires api_key and model. base_url defaults to https://api.openai.com/v1;
// temperature and max_tokens are sent on every completion request.
//
// # Errors
//
// Each call is a single request. Failures carry a services marker:
// 401/403/404 and replies cut off at max_tokens are configuration errors,
// everything else is transient. The translator's retry loop stops on the
// former and retries the latter.
package llm
