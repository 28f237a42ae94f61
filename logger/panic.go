package logger

import log "github.com/sirupsen/logrus"

// LogErrorAndPanic logs err and panics; for invariant violations that leave the process unusable
func LogErrorAndPanic(str string, err error) {
	log.WithField("error", err.Error()).Error(str)
	panic(str + ": " + err.Error())
}
