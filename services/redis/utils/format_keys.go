package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format string every time, potentially confusing the key format.
 */

import "fmt"

func FormatRoomSnapshotKey(roomId string) string {
	return fmt.Sprintf("room:%s", roomId)
}

func FormatRoomPattern() string {
	return "room:*"
}
