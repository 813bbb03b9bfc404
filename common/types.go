package common

type LocalMsgType uint32

func (lt *LocalMsgType) Type() LocalMsgType {
	return (*lt) & (0xff00)
}

func (lt *LocalMsgType) SubType() LocalMsgType {
	return (*lt) & (0x00ff)
}

// |--type--|-subtype-|
// 0000 0000 0000 0000
const (
	LocalNoUseType         LocalMsgType = 0
	LocalTrainMsg          LocalMsgType = 1 << 8
	LocalTrainMsg_Progress LocalMsgType = LocalTrainMsg | 1
	LocalTrainMsg_Finished LocalMsgType = LocalTrainMsg | 2
)
