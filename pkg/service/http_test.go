package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTimeoutHandler(t *testing.T) {
	Convey("Given a timeout handler", t, func() {
		var logged []string
		logFunc := func(msg string, ctx ...interface{}) {
			logged = append(logged, msg)
		}
		fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusAccepted)
			w.Write([]byte("done"))
		})

		Convey("When the handler finishes in time", func() {
			w := httptest.NewRecorder()
			TimeoutHandler(logFunc, time.Second, fast).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

			Convey("Its response should be kept", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Body.String(), ShouldEqual, "done")
				So(logged, ShouldBeEmpty)
			})
		})

		Convey("When the handler takes too long without writing a header", func() {
			release := make(chan struct{})
			writeErr := make(chan error, 1)
			slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				<-release
				_, err := w.Write([]byte("late"))
				writeErr <- err
			})
			w := httptest.NewRecorder()
			served := make(chan struct{})
			go func() {
				TimeoutHandler(logFunc, time.Microsecond, slow).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
				close(served)
			}()

			Convey("It should respond with service unavailable", func() {
				select {
				case <-served:
				case <-time.After(5 * time.Second):
					t.Fatal("timeout handler did not return")
				}
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(logged, ShouldResemble, []string{"request timeout"})

				Convey("Late writes of the handler should be rejected", func() {
					close(release)
					So(<-writeErr, ShouldEqual, ErrTimedOut)
					So(w.Body.String(), ShouldBeEmpty)
				})
			})
		})
	})
}
