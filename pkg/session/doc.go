/*
Package session provides safe concurrent access to walkthrough sessions.

The Manager serializes state mutations per session with ref-counted mutexes
and optionally coordinates across replicas via a DistributedLocker.
*/
package session
