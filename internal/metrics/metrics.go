// Package metrics 提供Prometheus监控指标
//
// 命令行进程生命周期短，指标在每次执行结束时写入 node_exporter
// textfile collector 读取的文件，而不是通过 HTTP 暴露。
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 生成结果状态
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Recorder 排班指标记录器
type Recorder struct {
	gatherer     prometheus.Gatherer
	generations  *prometheus.CounterVec
	duration     prometheus.Histogram
	slots        prometheus.Counter
	understaffed *prometheus.GaugeVec
	conflicts    *prometheus.CounterVec
}

// NewRecorder 在 reg 上注册指标，reg 为 nil 时新建独立注册表；
// 指标已注册时复用已有的采集器
func NewRecorder(reg *prometheus.Registry) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	generations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftmaker_generation_total",
		Help: "排班生成次数",
	}, []string{"status"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shiftmaker_generation_duration_seconds",
		Help:    "排班生成耗时",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	})
	slots := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shiftmaker_assigned_slots_total",
		Help: "已分配的人次",
	})
	understaffed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shiftmaker_understaffed_slots",
		Help: "未达到最少人数的拠点日数",
	}, []string{"month"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shiftmaker_conflicts_total",
		Help: "排班校验发现的冲突数",
	}, []string{"type"})

	var err error
	if generations, err = register(reg, generations); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if slots, err = register(reg, slots); err != nil {
		return nil, err
	}
	if understaffed, err = register(reg, understaffed); err != nil {
		return nil, err
	}
	if conflicts, err = register(reg, conflicts); err != nil {
		return nil, err
	}

	return &Recorder{
		gatherer:     reg,
		generations:  generations,
		duration:     duration,
		slots:        slots,
		understaffed: understaffed,
		conflicts:    conflicts,
	}, nil
}

// register 注册采集器，已注册时返回已有实例
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordGeneration 记录一次成功的生成
func (r *Recorder) RecordGeneration(month string, d time.Duration, slots, understaffed int) {
	r.generations.WithLabelValues(StatusSuccess).Inc()
	r.duration.Observe(d.Seconds())
	r.slots.Add(float64(slots))
	r.understaffed.WithLabelValues(month).Set(float64(understaffed))
}

// RecordFailure 记录一次失败的生成
func (r *Recorder) RecordFailure() {
	r.generations.WithLabelValues(StatusFailed).Inc()
}

// RecordConflict 记录校验冲突
func (r *Recorder) RecordConflict(conflictType string) {
	r.conflicts.WithLabelValues(conflictType).Inc()
}

// WriteTextfile 以文本格式写出全部指标
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.gatherer)
}
