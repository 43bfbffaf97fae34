/*
Package ports defines the driven ports (interfaces) for the Ladle engine.

These interfaces decouple the core logic from external implementations,
allowing the engine to work with various storage backends and external
collaborators.

# Key Interfaces

  - RecipeStore: Holds the normalized recipes for active sessions.
  - StateStore: Persists and loads per-session walkthrough state.
  - RecipeExtractor: The extraction collaborator (URL -> normalized Recipe).
  - Answerer: The answering collaborator (LLM) for open-ended questions.
  - DistributedLocker: Distributed locking for concurrent session access.
*/
package ports
