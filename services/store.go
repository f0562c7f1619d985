package services

import (
	goctx "context"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/elementa-lab/elementa_api/model"
)

const STORE_SVC = "progress_store_svc"

// Backend identifies which storage tier served a load or accepted a save.
type Backend string

const (
	BackendRemote Backend = "remote"
	BackendLocal  Backend = "local"
)

// ProgressStore is the persistence boundary the progress service talks to.
// Implementations never surface storage errors to callers; they fall back or
// drop, and report which tier actually served.
type ProgressStore interface {
	Load(ctx goctx.Context, identity model.Identity) (*model.ProgressRecord, Backend)
	Save(ctx goctx.Context, identity model.Identity, update model.ProgressUpdate) Backend
}

// progressBackend is one storage tier. Load returns a record for keys that
// have never been written; only infrastructure failures error.
type progressBackend interface {
	Load(ctx goctx.Context, userKey string) (*model.ProgressRecord, error)
	Save(ctx goctx.Context, userKey string, update model.ProgressUpdate) error
}

// ProgressStoreService routes authenticated learners to the remote backend
// and guests to the local cache. Remote failures fall back to the local
// cache silently; a failure of the fallback itself is logged and dropped so
// callers never block on storage.
type ProgressStoreService struct {
	context.DefaultService

	remote progressBackend
	local  progressBackend
}

func (svc ProgressStoreService) Id() string {
	return STORE_SVC
}

func (svc *ProgressStoreService) Start() error {
	svc.remote = &remoteProgressStore{sql: svc.Service(POSTGRES_SVC).(*PostgresService)}
	svc.local = &localProgressStore{cache: svc.Service(REDIS_SVC).(*RedisService)}
	return nil
}

func (svc *ProgressStoreService) Load(ctx goctx.Context, identity model.Identity) (*model.ProgressRecord, Backend) {
	key := identity.StorageKey()

	if identity.Authenticated() {
		record, err := svc.remote.Load(ctx, key)
		if err == nil {
			return record, BackendRemote
		}
		log.WithError(err).WithField("user_key", key).Warn("remote load failed, serving local cache")
		storeFallbacks.WithLabelValues("load").Inc()
	}

	record, err := svc.local.Load(ctx, key)
	if err != nil {
		log.WithError(err).WithField("user_key", key).Warn("local load failed, serving defaults")
		return model.NewProgressRecord(key), BackendLocal
	}
	return record, BackendLocal
}

func (svc *ProgressStoreService) Save(ctx goctx.Context, identity model.Identity, update model.ProgressUpdate) Backend {
	if update.IsEmpty() {
		return BackendLocal
	}
	key := identity.StorageKey()

	if identity.Authenticated() {
		err := svc.remote.Save(ctx, key, update)
		if err == nil {
			return BackendRemote
		}
		log.WithError(err).WithField("user_key", key).Warn("remote save failed, writing local cache")
		storeFallbacks.WithLabelValues("save").Inc()
	}

	if err := svc.local.Save(ctx, key, update); err != nil {
		// Terminal tier failed; the write is dropped rather than surfaced.
		log.WithError(err).WithField("user_key", key).Error("local save failed, update dropped")
	}
	return BackendLocal
}
