/*
Package domain contains the core domain models for the Ladle engine.

It defines the fundamental entities of the recipe walkthrough: the Recipe
and its Steps and Ingredients, the WalkState that tracks the user's position,
and the Query/Intent pair produced by the classifier. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Recipe: An immutable, normalized recipe (atomized steps, ingredients, metadata).
  - WalkState: The runtime snapshot of a session (current step index, visit history).
  - Query: A classified user utterance with its extracted slots.
  - Response: The assembled answer contract returned for every utterance.
*/
package domain
