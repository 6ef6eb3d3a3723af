package redis

import "fmt"

const (
	// KeyPrefixResource is the prefix for resource keys
	KeyPrefixResource = "chronos:resource:"
	// KeyResourceOrder is the sorted set of resource IDs scored by creation time
	KeyResourceOrder = "chronos:resources:order"
)

// ResourceKey returns the Redis key for a resource by ID
func ResourceKey(id string) string {
	return KeyPrefixResource + id
}

// ResourceOrderKey returns the key of the insertion-order index
func ResourceOrderKey() string {
	return KeyResourceOrder
}

// ExtractResourceID extracts the resource ID from a Redis key
func ExtractResourceID(key string) (string, error) {
	if len(key) <= len(KeyPrefixResource) || key[:len(KeyPrefixResource)] != KeyPrefixResource {
		return "", fmt.Errorf("invalid resource key: %s", key)
	}
	return key[len(KeyPrefixResource):], nil
}
