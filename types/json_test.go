package types

import (
	"bytes"
	"testing"
)

func TestLoadCircuit(t *testing.T) {
	c, err := LoadCircuit("testdata/divider.json")
	if err != nil {
		t.Fatalf("加载电路失败: %s", err)
	}
	if len(c.Components) != 4 || len(c.Wires) != 4 {
		t.Fatalf("数量不正确: %d %d", len(c.Components), len(c.Wires))
	}
	v, _ := c.Component("V1")
	p, ok := v.Params.(*VoltageSourceParams)
	if !ok {
		t.Fatalf("参数类型不正确: %T", v.Params)
	}
	if p.Waveform != WfDC || p.Amplitude != 10 {
		t.Errorf("电源参数不正确: %+v", p)
	}
	g, _ := c.Component("G1")
	if g.Kind != KindGround || g.Params == nil {
		t.Errorf("地元件解析不正确: %v", g)
	}
	w, _ := c.Wire("w3")
	if w.End.Binding == nil || w.End.Binding.Component != "G1" {
		t.Errorf("绑定解析不正确: %+v", w.End)
	}
}

func TestWriteCircuit(t *testing.T) {
	c := newDivider(t)
	v, _ := c.Component("V1")
	v.Params.Set("waveform", float64(WfSquare))
	var buf bytes.Buffer
	if err := WriteCircuit(&buf, c); err != nil {
		t.Fatalf("导出失败: %s", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"type": "voltage-source"`)) {
		t.Errorf("类型应以名称导出: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"waveform": "square"`)) {
		t.Errorf("波形应以名称导出: %s", buf.String())
	}
	n, err := ReadCircuit(&buf)
	if err != nil {
		t.Fatalf("重新读取失败: %s", err)
	}
	nv, _ := n.Component("V1")
	if nv.Params.(*VoltageSourceParams).Waveform != WfSquare {
		t.Errorf("波形读取不正确")
	}
}

func TestReadCircuitUnknownKind(t *testing.T) {
	_, err := ReadCircuit(bytes.NewBufferString(`{"components":[{"id":"X","type":"flux-capacitor"}]}`))
	if err == nil {
		t.Errorf("未知类型应返回错误")
	}
}
