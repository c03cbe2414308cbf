package seeds

import (
	"context"
	"log"
	"path/filepath"

	"schooladmin_backend/internals/docstore"
	authService "schooladmin_backend/internals/features/auth/service"
	"schooladmin_backend/internals/seeds/admins"
	"schooladmin_backend/internals/seeds/documents"
)

const (
	AdminsFile    = "admins/data_admins.json"
	DocumentsFile = "documents/data_documents.json"
)

// RunAllSeeds loads the admin and document seeds found under dir
// (normally internals/seeds).
func RunAllSeeds(ctx context.Context, store docstore.Store, auth *authService.AuthService, dir string, overwrite bool) error {
	//* Admins
	n, err := admins.SeedAdminsFromJSON(ctx, auth, filepath.Join(dir, AdminsFile))
	if err != nil {
		return err
	}
	log.Printf("[INFO] %d admins seeded", n)

	//* Documents
	n, err = documents.SeedDocumentsFromJSON(ctx, store, filepath.Join(dir, DocumentsFile), overwrite)
	if err != nil {
		return err
	}
	log.Printf("[INFO] %d documents seeded", n)
	return nil
}
