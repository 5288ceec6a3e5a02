package field

import "github.com/sirupsen/logrus"

var logger logrus.FieldLogger = logrus.StandardLogger()

// SetLogger replaces the logger used to report schema violations during loads.
// A nil logger restores the logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.StandardLogger()
	}
	logger = l
}
