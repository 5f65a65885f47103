package model

// Block 可复用的实体组，Base 为插入基点
type Block struct {
	Name     string
	Base     Point
	Entities []Entity
}

func NewBlock(name string, base Point, entities []Entity) (Block, error) {
	b := Block{Name: name, Base: base, Entities: append([]Entity(nil), entities...)}
	if err := b.Validate(); err != nil {
		return Block{}, err
	}
	return b, nil
}

// Validate 只校验块自身的几何数据，图层和块引用由 Drawing.AddBlock 检查
func (b Block) Validate() error {
	if msg := checkName(b.Name); msg != "" {
		return &ValidationError{Kind: InvalidGeometry, Entity: "BLOCK", Name: b.Name, Msg: "block name " + msg}
	}
	if !b.Base.Finite() {
		return &ValidationError{Kind: InvalidGeometry, Entity: "BLOCK", Name: b.Name, Msg: "non-finite base point"}
	}
	for _, e := range b.Entities {
		if e == nil {
			return &ValidationError{Kind: InvalidGeometry, Entity: "BLOCK", Name: b.Name, Msg: "nil entity"}
		}
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}
