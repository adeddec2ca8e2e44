package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "postpilot_"

const (
	TABLE_POSTS               = TableName("posts")
	TABLE_VECTORS             = TableName("vectors")
	TABLE_PROCESSED_MESSAGES  = TableName("processed_messages")
	TABLE_CONVERSATION_MEMORY = TableName("conversation_memory")
	TABLE_CUSTOM_CONFIG       = TableName("custom_config")
)
