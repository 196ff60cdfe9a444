package redis

const (
	// KeyPrefix namespaces every key written by folio
	KeyPrefix = "folio:"
	// KeyDraft holds the operator's serialized draft document
	KeyDraft = KeyPrefix + "draft"
	// KeyPublished holds the last document seen on the remote store
	KeyPublished = KeyPrefix + "published"
	// KeyPublishedRevision holds the revision marker of KeyPublished
	KeyPublishedRevision = KeyPrefix + "published:revision"
)

// DraftKey returns the Redis key for a named draft slot.
// The admin console only ever uses the default slot ("").
func DraftKey(slot string) string {
	if slot == "" {
		return KeyDraft
	}
	return KeyDraft + ":" + slot
}
