package env

import (
	golog "log"
	"os"

	"github.com/go-sql-driver/mysql"
	"gopkg.in/inconshreveable/log15.v2"
)

// logging prefixes for different log levels
// see <http://0pointer.de/public/systemd-man/sd-daemon.html>
const (
	sdCrit    = "<2>"
	sdErr     = "<3>"
	sdWarning = "<4>"
	sdInfo    = "<6>"
	sdDebug   = "<7>"
)

// Log is the root logger of banktransferd
var Log log15.Logger

func init() {
	// new-style daemon: log to stderr and let the init system forward to syslog
	Log = log15.New()
	Log.SetHandler(log15.StreamHandler(os.Stderr, DaemonFormat()))
	golog.SetFlags(0)
	golog.SetOutput(logBridge{Log})
	err := mysql.SetLogger(mysqlLog{})
	if err != nil {
		Log.Crit("error setting up mysql log", log15.Ctx{"err": err})
	}
}

// SetLevel filters the root logger by the given level name (crit, error, warn, info, debug)
func SetLevel(lvl string) error {
	l, err := log15.LvlFromString(lvl)
	if err != nil {
		return err
	}
	Log.SetHandler(log15.LvlFilterHandler(l, log15.StreamHandler(os.Stderr, DaemonFormat())))
	return nil
}

// DaemonFormat returns a log15.Format producing logfmt records prefixed with
// the sd-daemon level, so they can be forwarded to syslog by the init system
func DaemonFormat() log15.Format {
	logfmt := log15.LogfmtFormat()
	return log15.FormatFunc(func(r *log15.Record) []byte {
		return append([]byte(levelPrefix(r.Lvl)), logfmt.Format(r)...)
	})
}

func levelPrefix(lvl log15.Lvl) string {
	switch lvl {
	case log15.LvlCrit:
		return sdCrit
	case log15.LvlError:
		return sdErr
	case log15.LvlWarn:
		return sdWarning
	case log15.LvlInfo:
		return sdInfo
	default:
		return sdDebug
	}
}

// logBridge routes messages of the std log pkg to log15 as Info records
type logBridge struct {
	log log15.Logger
}

func (l logBridge) Write(msg []byte) (int, error) {
	l.log.Info("log pkg message", log15.Ctx{"message": string(msg)})
	return len(msg), nil
}

type mysqlLog struct{}

func (m mysqlLog) Print(v ...interface{}) {
	Log.Warn("mysql log", log15.Ctx{"mysqlLog": v})
}
