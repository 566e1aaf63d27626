package middleware

import (
	"net/http"
	"time"

	"wamock/internal/config"
	"wamock/internal/constants"
	"wamock/internal/errors"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// VersionCheck gates protected routes on the {version} path segment. This
// runs before the phone-identity check; a bad version short-circuits with
// the fixed UnsupportedVersion body regardless of everything else.
func VersionCheck(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			version := mux.Vars(r)["version"]
			if version != constants.SupportedAPIVersion {
				logger.WithFields(logrus.Fields{
					"requested_version": version,
					"supported_version": constants.SupportedAPIVersion,
					"path":              r.URL.Path,
				}).Warn("Unsupported API version requested")
				errors.WriteError(w, errors.NewUnsupportedVersionError(version, constants.SupportedAPIVersion))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PhoneIDCheck gates protected routes on the {phoneNumberId} path segment,
// compared after the same normalization used at config build. Always
// ordered after VersionCheck.
func PhoneIDCheck(phoneNumberID string, logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested := mux.Vars(r)["phoneNumberId"]
			if config.NormalizePhoneNumberID(requested) != phoneNumberID {
				logger.WithFields(logrus.Fields{
					"requested_phone_number_id":  requested,
					"configured_phone_number_id": phoneNumberID,
					"path":                       r.URL.Path,
				}).Warn("Unknown phone number ID requested")
				errors.WriteError(w, errors.NewPhoneMismatchError(requested))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ResponseDelay suspends every request handler uniformly before routing.
// Zero delay is a pass-through. Request cancellation cuts the sleep short.
func ResponseDelay(delayMs int) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if delayMs <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := time.NewTimer(time.Duration(delayMs) * time.Millisecond)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Recovery converts handler panics into the generic 500 body. Full detail
// goes to the logger only; nothing escapes to crash the process.
func Recovery(logger *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.WithFields(logrus.Fields{
						"panic": rec,
						"path":  r.URL.Path,
					}).Error("Handler panic recovered")
					errors.WriteError(w, errors.New(errors.ErrCodeInternalError, "handler panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
