package internal

// 操作模式
type Operation string

const (
	OpReformat   Operation = "reformat"
	OpRecompress Operation = "recompress"
)
