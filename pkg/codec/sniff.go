package codec

import (
	"io"

	"github.com/h2non/filetype"
)

// headerSize 文件类型检测所需的文件头部大小（字节）
const headerSize = 261

// sniff 读取文件头部识别真实类型，只用于丰富解码失败的错误信息
func (c *Imaging) sniff(path string) string {
	head, err := c.readHeader(path)
	if err != nil || len(head) == 0 {
		return "unknown"
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return "unknown"
	}

	return kind.MIME.Value
}

// readHeader 读取文件的前 headerSize 个字节
func (c *Imaging) readHeader(path string) ([]byte, error) {
	file, err := c.Fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return head[:n], nil
}
