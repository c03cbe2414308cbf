package admins

import (
	"context"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	authService "schooladmin_backend/internals/features/auth/service"
)

type AdminSeed struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SeedAdminsFromJSON creates or resets every operator listed in filePath.
// Entries that fail are logged and skipped.
func SeedAdminsFromJSON(ctx context.Context, svc *authService.AuthService, filePath string) (int, error) {
	log.Println("[INFO] reading admin seed:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "read admin seed")
	}
	var inputs []AdminSeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, errors.Wrap(err, "decode admin seed")
	}

	n := 0
	for _, data := range inputs {
		_, created, err := svc.UpsertAdmin(ctx, data.Email, data.Name, data.Password)
		if err != nil {
			log.Printf("[ERROR] seed admin '%s': %v", data.Email, err)
			continue
		}
		if created {
			log.Printf("[INFO] admin '%s' created", data.Email)
		} else {
			log.Printf("[INFO] admin '%s' already existed, password reset", data.Email)
		}
		n++
	}
	return n, nil
}
