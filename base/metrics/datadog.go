package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"
	"github.com/spf13/viper"

	"github.com/x-xyz/auction/base/log"
)

const (
	ddClientsSize    = 16 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	defaultDdPort = 8125
	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}

	// ddClientsIdx is used for accessing ddClients by round robin scheduling
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

// initDDClient dials the agent at datadog_host:datadog_port. Without a host
// every metric goes to the debug log.
func initDDClient() {
	host := viper.GetString("datadog_host")
	ddClients = make([]statsCli, ddClientsSize)
	if host == "" {
		log.Log().Info("datadog_host not set, metrics go to debug log")
		for i := 0; i < ddClientsSize; i++ {
			ddClients[i] = &LogClient{}
		}
		return
	}

	port := viper.GetInt("datadog_port")
	if port == 0 {
		port = defaultDdPort
	}
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")
	for i := 0; i < ddClientsSize; i++ {
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
		}
		ddClients[i] = cli
	}
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

// DDMetrics sends to one of the statsd clients, round robin.
type DDMetrics struct {
	ddTags []string
}

func (dm *DDMetrics) send(fn, key string, val float64, f func(cli statsCli) error) {
	initOnce.Do(initDDClient)
	i := atomic.AddInt32(&ddClientsIdx, 1) & ddClientsIdxMask
	if err := f(ddClients[i]); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": key, "val": val, "func": fn}).Error("Bump fail")
	}
}

func (dm *DDMetrics) tags(tags []string) []string {
	out := make([]string, 0, len(dm.ddTags)+len(tags)/2)
	return append(append(out, dm.ddTags...), parseTag(tags)...)
}

// BumpAvg reports val as a gauge, datadog has no average only type.
func (dm *DDMetrics) BumpAvg(key string, val, sampleRate float64, tags ...string) {
	t := dm.tags(tags)
	dm.send("BumpAvg", key, val, func(cli statsCli) error {
		return cli.Gauge(key, val, t, sampleRate)
	})
}

func (dm *DDMetrics) BumpSum(key string, val, sampleRate float64, tags ...string) {
	t := dm.tags(tags)
	dm.send("BumpSum", key, val, func(cli statsCli) error {
		return cli.Count(key, int64(val), t, sampleRate)
	})
}

func (dm *DDMetrics) BumpHistogram(key string, val, sampleRate float64, tags ...string) {
	t := dm.tags(tags)
	dm.send("BumpHistogram", key, val, func(cli statsCli) error {
		return cli.Histogram(key, val, t, sampleRate)
	})
}

// BumpTime starts a timer reported as milliseconds on End.
//
//	defer s.BumpTime("my.function").End()
func (dm *DDMetrics) BumpTime(key string, sampleRate float64, tags ...string) Ender {
	return &ddTimeTracker{
		dm:         dm,
		start:      time.Now(),
		key:        key,
		tags:       dm.tags(tags),
		sampleRate: sampleRate,
	}
}

// parseTag turns key/value pairs into datadog key:value tags.
func parseTag(tags []string) []string {
	if tags == nil {
		return nil
	}
	if len(tags)%2 != 0 {
		log.Log().WithField("tags", tags).Panic("tag length needs to be multiple of 2")
	}
	arr := make([]string, len(tags)/2)
	for i := 0; i < len(tags); i += 2 {
		arr[i/2] = tags[i] + ":" + tags[i+1]
	}
	return arr
}

type ddTimeTracker struct {
	dm         *DDMetrics
	start      time.Time
	key        string
	tags       []string
	sampleRate float64
}

func (dt *ddTimeTracker) End() {
	dur := float64(time.Since(dt.start)) / float64(time.Millisecond)
	dt.dm.send("BumpTime", dt.key, dur, func(cli statsCli) error {
		return cli.TimeInMilliseconds(dt.key, dur, dt.tags, dt.sampleRate)
	})
}
