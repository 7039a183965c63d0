package config

import "os"

const (
	firestoreProjectEnv  = "FIRESTORE_PROJECT_ID"
	firestoreDatabaseEnv = "FIRESTORE_DATABASE_ID"
	cloudProjectEnv      = "GOOGLE_CLOUD_PROJECT"

	defaultFirestoreDatabase = "(default)"
)

type FirestoreConfig struct {
	ProjectID  string
	DatabaseID string
}

func LoadFirestoreConfig() *FirestoreConfig {
	projectID := os.Getenv(firestoreProjectEnv)
	if projectID == "" {
		projectID = os.Getenv(cloudProjectEnv)
	}

	databaseID := os.Getenv(firestoreDatabaseEnv)
	if databaseID == "" {
		databaseID = defaultFirestoreDatabase
	}

	return &FirestoreConfig{
		ProjectID:  projectID,
		DatabaseID: databaseID,
	}
}

func (c *FirestoreConfig) Validate() error {
	if c == nil || c.ProjectID == "" {
		return ErrFirestoreProjectMissing
	}
	return nil
}
