package usecase

// AccessUseCase authorizes broadcast and registry-inspection operations.
// Static single-admin model: one configured handle, case-sensitive exact
// match. A known limitation, not a bug; there are no roles to grow into.
type AccessUseCase interface {
	IsAdmin(username string) bool
}

type accessUC struct {
	adminUsername string
}

func NewAccessUseCase(adminUsername string) AccessUseCase {
	return &accessUC{adminUsername: adminUsername}
}

func (uc *accessUC) IsAdmin(username string) bool {
	return username != "" && username == uc.adminUsername
}
