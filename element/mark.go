package element

import (
	"errors"
	"fmt"

	"circuitsim/types"
	"circuitsim/utils"
)

// 规则错误
var (
	ErrUnregistered   = errors.New("元件类型未注册")
	ErrParamsMismatch = errors.New("元件参数与类型不符")
)

// New 创建填充默认参数的元件
func New(id types.ComponentID, kind types.Kind, pos types.Point) (*types.Component, error) {
	e, ok := ElementList[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnregistered, kind)
	}
	params, err := e.GetConfig().Defaults(kind)
	if err != nil {
		return nil, err
	}
	return &types.Component{ID: id, Kind: kind, Position: pos, Params: params}, nil
}

// Sanitize 校验元件参数,缺失或非法的值替换为默认值
func Sanitize(c *types.Component) error {
	e, ok := ElementList[c.Kind]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnregistered, c)
	}
	config := e.GetConfig()
	if c.Params == nil {
		params, err := config.Defaults(c.Kind)
		if err != nil {
			return err
		}
		c.Params = params
		return nil
	}
	if c.Params.Kind() != c.Kind {
		return fmt.Errorf("%w: %s 参数为 %s", ErrParamsMismatch, c, c.Params.Kind())
	}
	if fixed := config.Sanitize(c.Params); len(fixed) > 0 {
		utils.GetLogger().Debugf("%s 参数 %v 非法,已恢复默认值", c, fixed)
	}
	return nil
}

// Update 按当前模式执行元件规则。返回值中的非有限数替换为0,
// 两端元件未给出引脚电流时按 [I, -I] 填充
func Update(ctx Context, c *types.Component) (types.Values, error) {
	e, ok := ElementList[c.Kind]
	if !ok {
		return types.Values{}, fmt.Errorf("%w: %s", ErrUnregistered, c)
	}
	if c.Params == nil || c.Params.Kind() != c.Kind {
		return types.Values{}, fmt.Errorf("%w: %s", ErrParamsMismatch, c)
	}
	var v types.Values
	switch ctx.Mode() {
	case ModeDC:
		if f, ok := e.(DCFace); ok {
			v = f.DC(ctx, c)
		} else {
			v = e.Transient(ctx, c)
		}
	case ModeAC:
		if f, ok := e.(ACFace); ok {
			v = f.AC(ctx, c)
		} else {
			v = e.Transient(ctx, c)
		}
	default:
		v = e.Transient(ctx, c)
	}
	if v.Pins == nil && c.Kind.IsTwoTerminal() {
		v.Pins = []float64{v.Current, -v.Current}
	}
	return finiteValues(c, v), nil
}

// finiteValues 非有限值替换为0
func finiteValues(c *types.Component, v types.Values) types.Values {
	bad := !IsFinite(v.Voltage) || !IsFinite(v.Current)
	v.Voltage, v.Current = Finite(v.Voltage), Finite(v.Current)
	for i, p := range v.Pins {
		if !IsFinite(p) {
			bad = true
			v.Pins[i] = 0
		}
	}
	if bad {
		utils.GetLogger().Debugf("%s 计算结果出现非有限值,已置零", c)
	}
	v.Power = v.Voltage * v.Current
	return v
}
