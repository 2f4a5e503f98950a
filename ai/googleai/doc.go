// Package googleai provides AI service implementations backed by the Google
// Gemini API.
//
// Gemini exposes an OpenAI-compatible surface at
// https://generativelanguage.googleapis.com/v1beta/openai, which this package
// uses through langchaingo's openai client. This keeps the client stack
// identical between providers; only the endpoint, key, and model names differ.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithService(ai.ServiceGoogleAI),
//	    ai.WithAPIKey(os.Getenv("GOOGLE_API_KEY")),
//	)
//
//	provider, err := googleai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
package googleai
