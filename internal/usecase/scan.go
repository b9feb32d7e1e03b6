package usecase

import (
	"context"

	"talent-pool-backend/internal/domain"
	"talent-pool-backend/pkg/logger"
	"talent-pool-backend/pkg/security"
	"talent-pool-backend/pkg/security/antivirus"
)

// MalwareScanner is satisfied by *antivirus.ClamAV. A nil scanner disables scanning.
type MalwareScanner interface {
	Scan(ctx context.Context, data []byte) (antivirus.Verdict, error)
}

// scanUpload rejects infected files and fails closed when the scanner errors.
func scanUpload(ctx context.Context, scanner MalwareScanner, userID, filename string, data []byte) error {
	if scanner == nil {
		return nil
	}

	verdict, err := scanner.Scan(ctx, data)
	if err != nil {
		logger.Log.Error("malware scan failed", "user_id", userID, "filename", filename, "error", err)
		return domain.ErrScanUnavailable
	}
	if verdict.Infected {
		security.DefaultLogger().LogMalwareDetected(ctx, userID, filename, verdict.Threat)
		return domain.ErrMalwareDetected
	}
	return nil
}
