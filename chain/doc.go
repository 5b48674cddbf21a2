// Package chain runs fixed-order sequences of prompt-template-bound LLM calls.
//
// Each Role renders its template from the variables gathered so far and
// stores the model's completion under its output key, so a later role may
// read any earlier output or initial input. The built-in role sets turn
// markdown notes into a thread, a hook, an image prompt and an image, or a
// subject and persona into a thread starter and a Midjourney prompt.
package chain
