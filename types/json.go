package types

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// componentJSON 编辑器导入导出格式
type componentJSON struct {
	ID         ComponentID     `json:"id"`
	Type       Kind            `json:"type"`
	Position   Point           `json:"position"`
	Rotation   float64         `json:"rotation,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
	Values     *Values         `json:"values,omitempty"`
}

// MarshalJSON 编码
func (c *Component) MarshalJSON() ([]byte, error) {
	raw := componentJSON{
		ID:       c.ID,
		Type:     c.Kind,
		Position: c.Position,
		Rotation: c.Rotation,
		Values:   &c.Values,
	}
	if c.Params != nil {
		data, err := json.Marshal(c.Params)
		if err != nil {
			return nil, err
		}
		raw.Parameters = data
	}
	return json.Marshal(raw)
}

// UnmarshalJSON 解码,参数按类型解析到具体结构
func (c *Component) UnmarshalJSON(data []byte) error {
	var raw componentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	params, err := NewParams(raw.Type)
	if err != nil {
		return fmt.Errorf("元件 %s: %w", raw.ID, err)
	}
	if len(raw.Parameters) > 0 && string(raw.Parameters) != "null" {
		if err := json.Unmarshal(raw.Parameters, params); err != nil {
			return fmt.Errorf("元件 %s 参数: %w", raw.ID, err)
		}
	}
	*c = Component{
		ID:       raw.ID,
		Kind:     raw.Type,
		Position: raw.Position,
		Rotation: raw.Rotation,
		Params:   params,
	}
	if raw.Values != nil {
		c.Values = *raw.Values
	}
	return nil
}

// MarshalText 波形编码为名称
func (w Waveform) MarshalText() ([]byte, error) { return []byte(w.String()), nil }

// UnmarshalText 波形解码
func (w *Waveform) UnmarshalText(text []byte) (err error) {
	*w, err = ParseWaveform(string(text))
	return err
}

// MarshalText 极性编码
func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText 极性解码
func (p *Polarity) UnmarshalText(text []byte) (err error) {
	*p, err = ParsePolarity(string(text))
	return err
}

// MarshalText 门类型编码
func (g Gate) MarshalText() ([]byte, error) { return []byte(g.String()), nil }

// UnmarshalText 门类型解码
func (g *Gate) UnmarshalText(text []byte) (err error) {
	*g, err = ParseGate(string(text))
	return err
}

// ReadCircuit 读取电路
func ReadCircuit(r io.Reader) (*Circuit, error) {
	c := &Circuit{}
	if err := json.NewDecoder(r).Decode(c); err != nil {
		return nil, fmt.Errorf("解析电路失败: %w", err)
	}
	return c, c.Validate()
}

// LoadCircuit 从文件加载电路
func LoadCircuit(filename string) (*Circuit, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCircuit(file)
}

// WriteCircuit 导出电路
func WriteCircuit(w io.Writer, c *Circuit) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
