package migrations

import "jobradar/common/database/schema"

var CreateJobsTable = schema.Migration{
	Version:     1,
	Description: "Create jobs table",
	Up: `
		CREATE TABLE IF NOT EXISTS jobs (
			id UUID,
			source_id String,
			title String,
			company String,
			location String,
			description String,
			skills Array(String),
			experience String,
			salary_min Float64,
			salary_max Float64,
			currency String,
			remote Bool,
			url String,
			category String,
			posted_at DateTime,
			created_at DateTime,
			updated_at DateTime,
			PRIMARY KEY (id)
		) ENGINE = ReplacingMergeTree(updated_at)
		PARTITION BY toYYYYMM(posted_at)
		ORDER BY (id, posted_at)
		SETTINGS index_granularity = 8192
	`,
	Down: `DROP TABLE IF EXISTS jobs`,
}

// All lists every migration in apply order.
var All = []schema.Migration{
	CreateJobsTable,
}
