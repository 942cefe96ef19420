package simulation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"circuitsim/element"
	_ "circuitsim/element/base"
	"circuitsim/filter"
	"circuitsim/graph"
	"circuitsim/kirchhoff"
	"circuitsim/types"
	"circuitsim/utils"
	"circuitsim/wirelink"
)

// 定时器间隔
const (
	baseInterval = 50 * time.Millisecond
	minInterval  = 10 * time.Millisecond
)

// Interval 速度对应的单步间隔 max(10ms, 50ms/speed)
func Interval(speed float64) time.Duration {
	return max(minInterval, time.Duration(float64(baseInterval)/speed))
}

// Config 会话配置
type Config struct {
	Manual      bool                // 不启动定时器,由调用方 Step 驱动
	Accuracy    filter.Settings     // 滤波精度
	Grid        float64             // 节点坐标量化网格
	Linker      wirelink.Linker     // 连线修复参数
	Corrector   kirchhoff.Corrector // 校正阈值
	SweepStart  float64             // 频率扫描起点
	SweepStop   float64             // 频率扫描终点
	EventBuffer int                 // 订阅通道默认缓冲
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		Accuracy:    filter.Settings{Accuracy: filter.AccuracyMedium},
		Grid:        types.NodeGrid,
		Linker:      *wirelink.New(),
		Corrector:   *kirchhoff.New(),
		SweepStart:  types.SweepStartFrequency,
		SweepStop:   types.SweepStopFrequency,
		EventBuffer: 64,
	}
}

// Session 一次仿真运行的全部状态,所有操作由同一把锁串行化
type Session struct {
	mu        sync.Mutex
	cfg       Config
	bus       *utils.Bus
	linker    *wirelink.Linker
	corrector *kirchhoff.Corrector
	bank      *filter.Bank
	freqs     []float64

	state      State
	mode       element.Mode
	speed      float64
	time       float64
	steps      uint64
	circuit    *types.Circuit
	graph      *graph.Graph
	overloaded []types.Binding
	stabilized bool
	current    types.ComponentID // 正在计算的元件

	ticker *time.Ticker
	quit   chan struct{}
	gen    uint64
}

// New 创建空闲会话
func New(cfg Config) (*Session, error) {
	preset, err := cfg.Accuracy.Resolve()
	if err != nil {
		return nil, err
	}
	if cfg.Grid <= 0 {
		cfg.Grid = types.NodeGrid
	}
	linker, corrector := cfg.Linker, cfg.Corrector
	return &Session{
		cfg:       cfg,
		bus:       utils.NewBus(),
		linker:    &linker,
		corrector: &corrector,
		bank:      filter.NewBank(preset),
		freqs:     Frequencies(cfg.SweepStart, cfg.SweepStop, preset.PointsPerDecade),
		speed:     1,
	}, nil
}

func checkSpeed(speed float64) error {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	return nil
}

// Start 开始运行: 复制电路,校验参数,初始化历史并启动定时器
func (s *Session) Start(c *types.Circuit, mode element.Mode, speed float64) error {
	if c == nil {
		return ErrNilCircuit
	}
	if err := checkSpeed(speed); err != nil {
		return err
	}
	if mode > element.ModeAC {
		return fmt.Errorf("未知仿真模式: %d", mode)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("电路校验失败: %w", err)
	}
	work := c.Clone()
	for _, e := range work.Components {
		if err := element.Sanitize(e); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return ErrNotIdle
	}
	s.circuit, s.graph = work, nil
	s.mode, s.speed = mode, speed
	s.time, s.steps = 0, 0
	s.overloaded, s.stabilized = nil, false
	s.bank.Reset()
	s.state = Running
	utils.GetLogger().Infof("仿真开始: %d 个元件, %d 条连线, 模式 %s, 速度 %g",
		len(work.Components), len(work.Wires), mode, speed)
	s.publish(EventStarted, s.snapshot())
	if !s.cfg.Manual {
		s.startLoop()
	}
	return nil
}

// Pause 暂停,结果保持可读
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return ErrNotRunning
	}
	s.stopLoop()
	s.state = Paused
	s.publish(EventPaused, s.snapshot())
	return nil
}

// Resume 恢复运行,保留历史
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Paused {
		return ErrNotPaused
	}
	s.state = Running
	s.publish(EventResumed, s.snapshot())
	if !s.cfg.Manual {
		s.startLoop()
	}
	return nil
}

// Stop 停止运行,清零全部结果与历史,返回清零后的快照
func (s *Session) Stop() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoop()
	if s.circuit != nil {
		s.circuit.ResetValues()
	}
	s.bank.Reset()
	s.state, s.stabilized, s.overloaded = Idle, false, nil
	snap := s.snapshot()
	s.publish(EventStopped, snap)
	if s.steps > 0 {
		utils.GetLogger().Infof("仿真停止: 共 %d 步, t=%g", s.steps, s.time)
	}
	return snap
}

// Close 停止运行并关闭全部订阅
func (s *Session) Close() {
	s.Stop()
	s.bus.Close()
}

// Step 立即执行一步
func (s *Session) Step() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Running {
		return Snapshot{}, ErrNotRunning
	}
	return s.step(true)
}

// UpdateComponent 修改元件参数,运行中立即按当前模式重新计算
func (s *Session) UpdateComponent(id types.ComponentID, property string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.circuit == nil {
		return ErrNotRunning
	}
	e, ok := s.circuit.Component(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownComponent, id)
	}
	if !e.Params.Set(property, value) {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, id, property)
	}
	if err := element.Sanitize(e); err != nil {
		return err
	}
	s.bank.Forget(id)
	if s.state != Running {
		return nil
	}
	_, err := s.step(false)
	return err
}

// UpdateComponentText 以文本形式修改参数,如 "4.7k"、"sine"
func (s *Session) UpdateComponentText(id types.ComponentID, property, text string) error {
	v, err := element.ParseProperty(property, text)
	if err != nil {
		return err
	}
	return s.UpdateComponent(id, property, v)
}

// UpdateSpeed 调整速度,影响后续步的间隔与时间增量
func (s *Session) UpdateSpeed(speed float64) error {
	if err := checkSpeed(speed); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = speed
	if s.ticker != nil {
		s.ticker.Reset(Interval(speed))
	}
	return nil
}

// UpdateAccuracy 调整滤波窗口、平滑系数、方差阈值与扫描分辨率
func (s *Session) UpdateAccuracy(settings filter.Settings) error {
	preset, err := settings.Resolve()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Accuracy = settings
	s.bank.SetPreset(preset)
	s.freqs = Frequencies(s.cfg.SweepStart, s.cfg.SweepStop, preset.PointsPerDecade)
	return nil
}

// UpdateMode 切换分析模式,历史重新开始
func (s *Session) UpdateMode(mode element.Mode) error {
	if mode > element.ModeAC {
		return fmt.Errorf("未知仿真模式: %d", mode)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.bank.Reset()
	return nil
}

// UpdateTopology 替换元件与连线集合。同ID同类型元件保留已有结果,滤波历史重新开始
func (s *Session) UpdateTopology(c *types.Circuit) error {
	if c == nil {
		return ErrNilCircuit
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("电路校验失败: %w", err)
	}
	work := c.Clone()
	for _, e := range work.Components {
		if err := element.Sanitize(e); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Idle {
		return ErrNotRunning
	}
	old := s.circuit.Index()
	for _, e := range work.Components {
		if prev, ok := old[e.ID]; ok && prev.Kind == e.Kind {
			e.Values, e.State = prev.Values.Clone(), prev.State.Clone()
		}
	}
	for _, w := range work.Wires {
		if prev, ok := s.circuit.Wire(w.ID); ok {
			w.Current, w.Voltage = prev.Current, prev.Voltage
		}
	}
	s.circuit, s.graph = work, nil
	s.bank.Reset()
	utils.GetLogger().Debugf("拓扑更新: %d 个元件, %d 条连线", len(work.Components), len(work.Wires))
	return nil
}

// Snapshot 当前结果副本
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// State 会话状态
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Speed 当前速度
func (s *Session) Speed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speed
}

// Subscribe 订阅事件,types 为空时接收全部
func (s *Session) Subscribe(buffer int, types ...utils.EventType) (<-chan utils.Event, func()) {
	if buffer <= 0 {
		buffer = s.cfg.EventBuffer
	}
	return s.bus.Subscribe(buffer, types...)
}

func (s *Session) publish(t utils.EventType, v any) {
	s.bus.Publish(utils.Event{Type: t, Time: s.time, Value: v})
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{Time: s.time, Step: s.steps, Mode: s.mode, State: s.state, Stabilized: s.stabilized}
	if s.circuit != nil {
		c := s.circuit.Clone()
		snap.Components, snap.Wires = c.Components, c.Wires
	}
	return snap
}

func (s *Session) startLoop() {
	s.gen++
	s.ticker = time.NewTicker(Interval(s.speed))
	s.quit = make(chan struct{})
	go s.loop(s.gen, s.ticker, s.quit)
}

// stopLoop 停止定时器,正在执行的一步会先完成
func (s *Session) stopLoop() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.quit)
	s.ticker, s.quit = nil, nil
}

func (s *Session) loop(gen uint64, ticker *time.Ticker, quit <-chan struct{}) {
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			s.tick(gen)
		}
	}
}

func (s *Session) tick(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen || s.state != Running {
		return
	}
	// 错误已经通过事件发布
	_, _ = s.step(true)
}

// step 执行一步: 参数校验、连线修复、元件规则、连线传播、校正、滤波、发布。
// 调用方持有锁
func (s *Session) step(advance bool) (snap Snapshot, err error) {
	if advance {
		s.time += types.StepTimeBase * s.speed
		s.steps++
	}
	defer func() {
		if r := recover(); r != nil {
			err = s.fail(s.current, fmt.Errorf("%v", r))
			snap = Snapshot{}
		}
		s.current = ""
	}()

	var errs []error
	c := s.circuit
	failed := map[types.ComponentID]bool{}
	for _, e := range c.Components {
		s.current = e.ID
		if err := element.Sanitize(e); err != nil {
			errs = append(errs, s.fail(e.ID, err))
			failed[e.ID] = true
		}
	}
	s.current = ""
	s.repair()
	if s.graph == nil {
		s.graph = graph.New(c, s.cfg.Grid)
	}

	// 全部规则读取上一步结果,计算完成后统一写回
	ctx := element.NewFrame(s.graph, s.mode, s.time)
	out := make([]types.Values, len(c.Components))
	for i, e := range c.Components {
		if failed[e.ID] {
			continue
		}
		s.current = e.ID
		v, err := element.Update(ctx, e)
		if err != nil {
			errs = append(errs, s.fail(e.ID, err))
			failed[e.ID] = true
			continue
		}
		out[i] = v
	}
	s.current = ""
	for i, e := range c.Components {
		if !failed[e.ID] {
			e.SetValues(out[i])
			e.State = out[i].Clone()
		}
	}

	s.linker.Propagate(c)
	if s.mode == element.ModeTransient {
		if res := s.corrector.Correct(s.graph); res.KVLFixed+res.KCLFixed > 0 {
			utils.GetLogger().Debugf("t=%g 校正 %d 个回路, %d 个节点", s.time, res.KVLFixed, res.KCLFixed)
		}
		s.bank.Apply(c)
		s.stabilized = s.bank.Stabilized()
	} else {
		// 直流与交流直接由公式给出,不做平滑
		s.stabilized = true
	}
	for _, e := range c.Components {
		if failed[e.ID] {
			e.ResetValues()
		}
	}
	guard(c)

	snap = s.snapshot()
	s.publish(EventUpdate, snap)
	if s.mode == element.ModeAC {
		if resp, ok := Sweep(s.graph, s.freqs); ok {
			s.publish(EventFrequencyResponse, resp)
		}
	}
	return snap, errors.Join(errs...)
}

// repair 修复失效绑定,连接关系改变时重建节点并清空历史
func (s *Session) repair() {
	report := s.linker.Repair(s.circuit)
	if report.Changed() {
		s.graph = nil
		s.bank.Reset()
	}
	if report.Changed() || !slices.Equal(report.Overloaded, s.overloaded) {
		s.overloaded = report.Overloaded
		s.publish(EventTopology, report)
	}
}

// fail 记录单步错误: 清零相关元件,清空滤波历史并发布错误事件
func (s *Session) fail(id types.ComponentID, err error) error {
	se := &StepError{Step: s.steps, Time: s.time, ID: id, Wrapped: err}
	utils.GetLogger().Warnf("%s", se)
	if id != "" {
		for _, e := range s.circuit.Components {
			if e != nil && e.ID == id {
				e.ResetValues()
			}
		}
	}
	s.bank.Reset()
	s.publish(EventError, ErrorReport{Error: ErrorDetail{Message: err.Error(), Component: id}, Time: s.time})
	return se
}

// guard 非有限值置零
func guard(c *types.Circuit) {
	for _, e := range c.Components {
		v := &e.Values
		if !element.IsFinite(v.Voltage) || !element.IsFinite(v.Current) || !element.IsFinite(v.Power) {
			utils.GetLogger().Debugf("%s 结果出现非有限值,已置零", e)
			e.ResetValues()
		}
	}
	for _, w := range c.Wires {
		w.Current, w.Voltage = element.Finite(w.Current), element.Finite(w.Voltage)
	}
}
