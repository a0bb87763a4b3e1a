/*Package metrics records service metrics through datadog statsd.

Metric names are prefixed by the package name given to New and follow:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Warning: *.warn
*/
package metrics

import (
	"math/rand"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/x-xyz/auction/base/env"
)

// Ender stops a timer started by BumpTime.
type Ender interface {
	End()
}

// Service records metrics under a package prefix. tags are key/value pairs.
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// New returns a Service prefixing every key with pkgName. Packages listed in
// metrics.disabled send nothing.
func New(pkgName string) Service {
	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{
			ddTags: []string{
				// an empty host tag drops the agent's host tags
				"host:",
				"pod:" + env.PodName(),
				"env:" + viper.GetString("env_name"),
				"app:" + viper.GetString("app_name"),
			},
		},
	}
}

type Metrics struct {
	pkgName string
	datadog DDMetrics
}

func (mt *Metrics) disabled() bool {
	for _, name := range viper.GetStringSlice("metrics.disabled") {
		if name == mt.pkgName {
			return true
		}
	}
	return false
}

// sampleRate is metrics.sampleRate when it is in (0, 1], else 1.
func (mt *Metrics) sampleRate() float64 {
	if rate := viper.GetFloat64("metrics.sampleRate"); rate > 0 && rate <= 1 {
		return rate
	}
	return 1.0
}

// bump sends through send unless the package is disabled. A panic in the
// client is counted as <kind>.panic instead of reaching the caller.
func (mt *Metrics) bump(kind, key string, tags []string, send func(name string, rate float64)) {
	if mt.disabled() {
		return
	}
	name := mt.pkgName + "." + key
	defer func() {
		if err := recover(); err != nil {
			mt.datadog.BumpSum(kind+".panic", 1, 1, "tag", name+"#"+strings.Join(tags, "#"))
		}
	}()

	rate := mt.sampleRate()
	defer mt.bumpLatency(kind, time.Now(), rate)
	send(name, rate)
}

// bumpLatency samples the cost of bumping itself at 0.01%.
func (mt *Metrics) bumpLatency(kind string, start time.Time, sampleRate float64) {
	if rand.Float64() < 0.0001*sampleRate {
		mt.datadog.BumpHistogram("bump.latency", float64(time.Since(start)/time.Millisecond), 1, "name", mt.pkgName, "type", kind)
	}
}

func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	mt.bump("bumpavg", key, tags, func(name string, rate float64) {
		mt.datadog.BumpAvg(name, val, rate, tags...)
	})
}

func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	mt.bump("bumpsum", key, tags, func(name string, rate float64) {
		mt.datadog.BumpSum(name, val, rate, tags...)
	})
}

func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	mt.bump("bumphistogram", key, tags, func(name string, rate float64) {
		mt.datadog.BumpHistogram(name, val, rate, tags...)
	})
}

// BumpTime starts a timer, End reports it:
//
//	defer met.BumpTime("call.time", "op", "bid").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	var end Ender = noopEnder{}
	mt.bump("bumptime", key, tags, func(name string, rate float64) {
		end = &timeTracker{
			dd: mt.datadog.BumpTime(name, rate, tags...),
			onPanic: func() {
				mt.datadog.BumpSum("bumptime.panic", 1, 1, "tag", name+"#"+strings.Join(tags, "#"))
			},
		}
	})
	return end
}

type noopEnder struct{}

func (noopEnder) End() {}

type timeTracker struct {
	dd      Ender
	onPanic func()
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.onPanic()
		}
	}()
	t.dd.End()
}
