// Package openai exports a tool catalog as OpenAI function tools, so the same
// definitions can be offered to an OpenAI-compatible endpoint or inspected in
// that format.
package openai
