package sigchan

// Chan 封装一个只传信号不传数据的 channel，
// 发送端永不阻塞，适合做事件通知。
type Chan struct {
	c chan struct{}
}

// New 按给定缓冲大小创建信号 channel。
func New(bufferSize int) *Chan {
	return &Chan{
		c: make(chan struct{}, bufferSize),
	}
}

// Emit 发出一次信号；缓冲已满时直接丢弃，不会阻塞调用方。
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
		// 已有未消费的信号，丢弃本次
	}
}

// C 暴露内部 channel，供调用方在 select 中等待信号。
func (c *Chan) C() <-chan struct{} {
	return c.c
}
