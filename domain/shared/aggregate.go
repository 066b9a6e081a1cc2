package shared

// AggregateRoot 聚合根接口
// 聚合根是一致性边界的入口，所有修改都经由它进行，并由它记录领域事件。
type AggregateRoot interface {
	// ID 返回聚合根标识
	// 数据库自增主键在写入前为空字符串，写入后由仓储回填
	ID() string

	// Version 返回当前版本号，不做乐观锁的聚合固定返回 0
	Version() int

	// PullEvents 获取并清空聚合根记录的领域事件
	// 工作单元在提交前调用它，把事件写入 outbox 表
	PullEvents() []DomainEvent
}

// Entity 实体接口
// 实体通过标识判断相等性，即使属性相同，ID 不同就是不同的实体
type Entity interface {
	ID() string
}
