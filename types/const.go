package types

// 默认参数常量定义
var (
	RotationStep        = 90.0  // 旋转步进角度
	TerminalSpan        = 30.0  // 两端元件引脚到中心的距离
	NodeGrid            = 1.0   // 节点坐标量化网格
	ReconnectTolerance  = 15.0  // 断线修复搜索半径
	MaxTerminalWires    = 4     // 非地引脚允许的最大连线数量
	MaxHops             = 16    // 回路与串联链搜索的最大跳数
	StepTimeBase        = 0.01  // 每步基础时间增量(秒)
	StabilizationDelta  = 0.01  // 电容电感稳定化常数(秒)
	MinResistance       = 0.1   // 电阻下限
	VoltageLimit        = 100.0 // 电压限幅
	CurrentLimit        = 1.0   // 电流限幅
	BaseCurrentLimit    = 0.1   // 基极电流限幅
	ThermalVoltage      = 0.026 // 热电压
	DiodeExponentLimit  = 5.0   // 二极管指数计算前电压上限
	TransistorBaseOhms  = 1000.0
	CapacitorDecay      = 0.99 // 无源放电衰减系数
	FilterOutputLimit   = 1000.0
	KVLThreshold        = 0.001 // 回路电压残差阈值
	KCLThreshold        = 1e-6  // 节点电流残差阈值
	SweepStartFrequency = 10.0  // 频率扫描起点
	SweepStopFrequency  = 10e3  // 频率扫描终点
)
