// Package conversation implements the conversation stream and the lifecycle
// of the stateful tool instances embedded in it.
//
// A conversation is a persisted, ordered sequence of entries. Most entries
// are plain dialogue; tool-instance entries host a post generator, video
// dubber or ad generator with their own retained state. Multiple tool
// instances can coexist per conversation, at most one holds the live focus
// at a time, and every instance survives reloads by round-tripping through
// the conversation's persisted entry list.
//
// All server interaction happens through the Gateway interface; mutations
// are optimistic and reconciled against the gateway response, keyed by
// entry id.
package conversation
