package constants

import "os"

func GetCatalogPath() string {
	path := os.Getenv("KARADEX_DB")
	if path != "" {
		return path
	}
	return "./karadex.db"
}

func GetMetadataEndpoint() string {
	endpoint := os.Getenv("KARADEX_DYNAMO_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetMetadataTable() string {
	table := os.Getenv("KARADEX_METADATA_TABLE")
	if table != "" {
		return table
	}
	return "karadex-metadata"
}

// TicksPerBeat is fixed by the txt format: note timestamps count
// quarter-beat ticks, so 4 ticks make one beat.
const TicksPerBeat = 4

// Charts with bpm values outside this range are considered broken.
const (
	MinBPM = 1.0
	MaxBPM = 1e12
)

const ChartExt = ".txt"

// Batch size limit for DynamoDB BatchGetItem requests.
const MetadataBatchSize = 10
