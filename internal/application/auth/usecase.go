// Package auth gestiona la sesión: escaneo de códigos, reset y tokens de sesión del bridge.
package auth

import (
	"errors"

	"github.com/jhoicas/Inventario-eventos/internal/application/dto"
	"github.com/jhoicas/Inventario-eventos/internal/application/ports"
	"github.com/jhoicas/Inventario-eventos/internal/application/store"
	"github.com/jhoicas/Inventario-eventos/internal/domain"
	"github.com/jhoicas/Inventario-eventos/internal/domain/entity"
	"github.com/jhoicas/Inventario-eventos/internal/domain/session"
	"github.com/jhoicas/Inventario-eventos/pkg/jwt"
	"github.com/jhoicas/Inventario-eventos/pkg/logger"
)

// ToastScanFailed aviso único por intento de escaneo no reconocido.
const ToastScanFailed = "scan.unrecognized"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// ViewCloser cierra los consumidores ligados a la sesión anterior (stocksync.Controller).
type ViewCloser interface {
	CloseViews()
	ResetCache()
}

// SessionUseCase transiciones de sesión: Guest -> EventAdmin | LocationUser y reset.
type SessionUseCase struct {
	store    *store.Store
	views    ViewCloser
	notifier ports.Notifier
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewSessionUseCase construye el caso de uso de sesión. views y notifier pueden ser nil.
func NewSessionUseCase(st *store.Store, views ViewCloser, notifier ports.Notifier, jwtCfg JWTConfig, log *logger.Logger) *SessionUseCase {
	if notifier == nil {
		notifier = ports.NotifierFunc(func(ports.Toast) {})
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SessionUseCase{store: st, views: views, notifier: notifier, jwtCfg: jwtCfg, log: log.Component("session")}
}

// Scan interpreta el código y cambia la sesión en una sola acción; el reducer purga los
// datos del alcance anterior. Si el código no se reconoce la sesión queda intacta y se
// avisa una sola vez.
func (uc *SessionUseCase) Scan(code string) (*dto.SessionResponse, error) {
	parsed, err := session.Parse(code)
	if err != nil {
		uc.log.Warn().Str("code", code).Msg("código no reconocido")
		uc.notifier.Notify(ports.Toast{Kind: ports.ToastError, Code: ToastScanFailed})
		return nil, err
	}

	uc.closeViews()
	switch parsed.Permission {
	case entity.PermissionEventAdmin:
		uc.store.Dispatch(store.SetEventSession(parsed.ID, parsed.APIHost))
	case entity.PermissionLocationUser:
		uc.store.Dispatch(store.SetLocationSession(parsed.ID, parsed.APIHost))
	}

	st := uc.store.Snapshot()
	uc.log.Info().Str("permission", string(st.Session.Permission)).Str("permission_id", st.Session.PermissionID).
		Str("api_host", st.Session.APIHost).Uint64("epoch", st.SessionEpoch).Msg("sesión iniciada")
	return uc.response(st, true)
}

// Reset vuelve a Guest y purga los datos.
func (uc *SessionUseCase) Reset() *dto.SessionResponse {
	uc.closeViews()
	uc.store.Dispatch(store.ResetSession())
	st := uc.store.Snapshot()
	uc.log.Info().Uint64("epoch", st.SessionEpoch).Msg("sesión reiniciada")
	resp, _ := uc.response(st, false)
	return resp
}

// Current sesión vigente sin token.
func (uc *SessionUseCase) Current() *dto.SessionResponse {
	resp, _ := uc.response(uc.store.Snapshot(), false)
	return resp
}

// Validate verifica que el token pertenezca a la sesión vigente.
func (uc *SessionUseCase) Validate(token string) (entity.Session, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return entity.Session{}, errors.Join(domain.ErrUnauthorized, err)
	}
	st := uc.store.Snapshot()
	if claims.Epoch != st.SessionEpoch ||
		claims.Permission != string(st.Session.Permission) ||
		claims.PermissionID != st.Session.PermissionID {
		return entity.Session{}, domain.ErrUnauthorized
	}
	return st.Session, nil
}

func (uc *SessionUseCase) closeViews() {
	if uc.views == nil {
		return
	}
	uc.views.CloseViews()
	uc.views.ResetCache()
}

func (uc *SessionUseCase) response(st store.State, withToken bool) (*dto.SessionResponse, error) {
	resp := ToSessionResponse(st)
	if withToken && st.Session.Permission != entity.PermissionGuest {
		token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes,
			string(st.Session.Permission), st.Session.PermissionID, st.SessionEpoch)
		if err != nil {
			return nil, err
		}
		resp.Token = token
	}
	return resp, nil
}

// ToSessionResponse traduce el estado a la respuesta HTTP.
func ToSessionResponse(st store.State) *dto.SessionResponse {
	routes := session.ReachableRoutes(st.Session).List()
	names := make([]string, len(routes))
	for i, r := range routes {
		names[i] = string(r)
	}
	return &dto.SessionResponse{
		Permission:   string(st.Session.Permission),
		PermissionID: st.Session.PermissionID,
		EventID:      st.Session.EventID,
		APIHost:      st.Session.APIHost,
		Epoch:        st.SessionEpoch,
		Routes:       names,
	}
}
