package constant

import "time"

// connection retry budget, applied once at startup
const (
	MAX_CONNECT_ATTEMPTS int           = 5
	CONNECT_RETRY_DELAY  time.Duration = 3 * time.Second
)

// listing and seeding defaults
const (
	DEFAULT_LIST_LIMIT int = 100
	SEED_COUNT         int = 50
)

// users.id is a 4 byte serial on postgres; larger ids can never match a row
const MAX_USER_ID int64 = 1<<31 - 1

// rows per INSERT statement when batching; keeps the bound parameter count
// under sqlite's and postgres' limits
const INSERT_CHUNK_SIZE int = 500

const (
	MSG_USER_NOT_FOUND   string = "User not found"
	MSG_DATABASE_FAILURE string = "Database connection or query failed"
	MSG_DB_UNAVAILABLE   string = "database unavailable"
	MSG_WELCOME          string = "Welcome to the users CRUD API. Go to /docs for the interactive API documentation."
)

const USERS_TABLE string = "users"
