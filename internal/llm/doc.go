// Package llm holds the chat message type shared by the prompt renderer and
// the provider layer the CLI uses to complete a rendered prompt.
//
// # Messages
//
// [Message] is the unit produced by template rendering: a role ("user" or
// "assistant") and its text. Rendering never talks to a model; it only
// returns []Message.
//
// # Providers
//
// A [Provider] turns a message list into a [Completion]. Backends register a
// [Factory] by name and [NewProvider] picks one from the config:
//
//	openai, anthropic   langchaingo, registered by this package
//	ollama              native client, registered by llm/ollama
//
// Callers that want Ollama import the subpackage for its side effect.
//
// # Usage
//
//	provider, err := llm.NewProvider(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	resp, err := provider.Complete(ctx, messages, &llm.Options{
//	    Model: cfg.LLM.Model(),
//	    Stop:  cfg.LLM.Stop,
//	})
package llm
