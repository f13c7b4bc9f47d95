package version

import "fmt"

// Заполняются при сборке через -ldflags "-X ...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, commit и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// String возвращает строку с информацией о сборке для логов и health.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
