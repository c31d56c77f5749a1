package common

import (
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	snowflakeOnce sync.Once
)

func getSnowflakeNode() *snowflake.Node {
	snowflakeOnce.Do(func() {
		nodeID := int64(1)
		if v := os.Getenv("STOCKPILE_NODE_ID"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 && n <= 1023 {
				nodeID = n
			}
		}
		node, err := snowflake.NewNode(nodeID)
		if err != nil {
			// fall back to a random valid node id
			node, _ = snowflake.NewNode(rand.New(rand.NewSource(time.Now().UnixNano())).Int63n(1024))
		}
		snowflakeNode = node
	})
	return snowflakeNode
}

// UUIDint64 generates a process-unique, time-ordered int64 identifier.
func UUIDint64() int64 {
	return getSnowflakeNode().Generate().Int64()
}

// UUIDstr generates a string form of UUIDint64.
func UUIDstr() string {
	return getSnowflakeNode().Generate().String()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
