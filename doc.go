/*
Package ladle is a deterministic recipe-walkthrough engine for building
cooking assistants that never lose their place.

It separates the walkthrough position (a small step-tracking state machine)
from question answering: navigation commands ("next", "back", "repeat") are
handled locally with reproducible transitions, structured lookups ("how much
flour?", "what temperature?") are answered from the recipe's own data, and
only open-ended questions are deferred to an answering collaborator such as
an LLM. The collaborator is stateless and receives the recipe, the current
step and the verbatim visit history on every call; it can never decide or
alter where the cook is.

# Key Properties

  - Deterministic navigation: given the same state and command, the
    transition is always reproducible, and a failed transition leaves the
    state untouched.
  - Single writer: all state mutation happens under a per-session lock, so
    concurrent utterances cannot skip or duplicate steps.
  - Verbatim history: every step shown through navigation is recorded
    exactly as displayed, in visit order, including revisits.
  - Hexagonal architecture: storage, extraction, answering and transport
    are adapters behind small ports.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/ladle"
	)

	func main() {
		engine, err := ladle.New()
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		// Store a recipe, open a session, and walk it.
		sessionID, err := engine.CreateSession(ctx, "cookies")
		if err != nil {
			log.Fatal(err)
		}

		resp, err := engine.Say(ctx, sessionID, "start")
		if err != nil {
			log.Fatal(err)
		}
		log.Println(resp.Text)
	}

Recipes come either from a local recipe book (pkg/adapters/loam) or from the
extraction collaborator (pkg/adapters/extract). Session state lives in memory
by default and in Redis (pkg/adapters/redis) when several instances share it.
*/
package ladle
