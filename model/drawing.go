package model

import "fmt"

// Units 对应 HEADER 中的 $INSUNITS
type Units int

const (
	Unitless    Units = 0
	Inches      Units = 1
	Feet        Units = 2
	Millimeters Units = 4
	Centimeters Units = 5
	Meters      Units = 6
)

// Drawing 一张图纸：有序的图层、块定义和实体
//
// Drawing 只能通过 AddLayer、AddBlock、AddEntity 增长，每一步都会校验，
// 所以任何时刻都满足：实体引用的图层和块都存在，块之间没有循环引用。
type Drawing struct {
	Units Units

	layers   []Layer
	layerIdx map[string]int
	blocks   []Block
	blockIdx map[string]int
	entities []Entity
}

// NewDrawing 创建只包含默认 "0" 图层的空图纸
func NewDrawing() *Drawing {
	d := &Drawing{
		layerIdx: make(map[string]int),
		blockIdx: make(map[string]int),
	}
	d.layers = append(d.layers, NewLayer(DefaultLayer))
	d.layerIdx[key(DefaultLayer)] = 0
	return d
}

// AddLayer 追加图层，名称重复时返回 DuplicateLayer
func (d *Drawing) AddLayer(l Layer) error {
	if err := l.Validate(); err != nil {
		return err
	}
	k := key(l.Name)
	if _, ok := d.layerIdx[k]; ok {
		return &ValidationError{Kind: DuplicateLayer, Entity: "LAYER", Name: l.Name}
	}
	d.layerIdx[k] = len(d.layers)
	d.layers = append(d.layers, l)
	return nil
}

// SetLayer 新增或替换同名图层的属性，实体按名称引用图层，所以不受影响
func (d *Drawing) SetLayer(l Layer) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if i, ok := d.layerIdx[key(l.Name)]; ok {
		d.layers[i] = l
		return nil
	}
	return d.AddLayer(l)
}

func (d *Drawing) Layer(name string) (Layer, bool) {
	i, ok := d.layerIdx[key(name)]
	if !ok {
		return Layer{}, false
	}
	return d.layers[i], true
}

func (d *Drawing) Layers() []Layer {
	return append([]Layer(nil), d.layers...)
}

// AddBlock 追加块定义。块内实体引用的图层和块必须已经存在，
// 因此块不能直接或间接引用自身。
func (d *Drawing) AddBlock(b Block) error {
	if err := b.Validate(); err != nil {
		return err
	}
	k := key(b.Name)
	if _, ok := d.blockIdx[k]; ok {
		return &ValidationError{Kind: DuplicateBlock, Entity: "BLOCK", Name: b.Name}
	}
	for _, e := range b.Entities {
		if err := d.checkRefs(e); err != nil {
			return err
		}
	}
	b.Entities = append([]Entity(nil), b.Entities...)
	d.blockIdx[k] = len(d.blocks)
	d.blocks = append(d.blocks, b)
	return nil
}

func (d *Drawing) Block(name string) (Block, bool) {
	i, ok := d.blockIdx[key(name)]
	if !ok {
		return Block{}, false
	}
	b := d.blocks[i]
	b.Entities = append([]Entity(nil), b.Entities...)
	return b, true
}

func (d *Drawing) Blocks() []Block {
	blocks := make([]Block, len(d.blocks))
	for i, b := range d.blocks {
		b.Entities = append([]Entity(nil), b.Entities...)
		blocks[i] = b
	}
	return blocks
}

// AddEntity 校验实体几何和引用后追加到模型空间
func (d *Drawing) AddEntity(e Entity) error {
	if e == nil {
		return &ValidationError{Kind: InvalidGeometry, Msg: "nil entity"}
	}
	if err := e.Validate(); err != nil {
		return err
	}
	if err := d.checkRefs(e); err != nil {
		return err
	}
	d.entities = append(d.entities, e)
	return nil
}

func (d *Drawing) Entities() []Entity {
	return append([]Entity(nil), d.entities...)
}

func (d *Drawing) checkRefs(e Entity) error {
	if _, ok := d.layerIdx[key(e.Layer())]; !ok {
		return &ValidationError{Kind: DanglingReference, Entity: e.Type(), Name: e.Layer(), Msg: "undefined layer"}
	}
	if ins, ok := e.(Insert); ok {
		if _, ok := d.blockIdx[key(ins.Block)]; !ok {
			return &ValidationError{Kind: DanglingReference, Entity: e.Type(), Name: ins.Block, Msg: "undefined block"}
		}
	}
	return nil
}

// Validate 重新检查整张图纸，用于从外部数据重建后的兜底校验
func (d *Drawing) Validate() error {
	if d == nil || d.layerIdx == nil {
		return &ValidationError{Kind: InvalidGeometry, Msg: "drawing not created with NewDrawing"}
	}
	seen := NewDrawing()
	seen.Units = d.Units
	for _, l := range d.layers {
		if err := seen.SetLayer(l); err != nil {
			return err
		}
	}
	for _, b := range d.blocks {
		if err := seen.AddBlock(b); err != nil {
			return fmt.Errorf("block %q: %w", b.Name, err)
		}
	}
	for _, e := range d.entities {
		if err := seen.AddEntity(e); err != nil {
			return err
		}
	}
	return nil
}

// EntityBBox 计算实体在世界坐标下的包围盒，块参照会展开块定义
func (d *Drawing) EntityBBox(e Entity) BBox {
	ins, ok := e.(Insert)
	if !ok {
		return e.BBox()
	}

	i, ok := d.blockIdx[key(ins.Block)]
	if !ok || len(d.blocks[i].Entities) == 0 {
		return ins.BBox()
	}

	block := d.blocks[i]
	local := EmptyBBox()
	for _, sub := range block.Entities {
		// 块之间无环，递归一定终止
		local = local.Union(d.EntityBBox(sub))
	}
	return ins.TransformBBox(local, block.Base)
}

// Extents 返回模型空间全部实体的包围盒，空图纸返回零值
func (d *Drawing) Extents() BBox {
	box := EmptyBBox()
	for _, e := range d.entities {
		box = box.Union(d.EntityBBox(e))
	}
	if box.IsEmpty() {
		return BBox{}
	}
	return box
}
