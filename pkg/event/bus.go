package event

import (
	"context"
	"log"
	"sync"
)

// Handler はイベントを処理する購読者側の関数。
// エラーを返した場合はバスがログに記録する。発行側には伝播しない。
type Handler func(ctx context.Context, e *Event) error

// subscriberQueueSize は購読者ごとのイベントキューの容量。
const subscriberQueueSize = 64

// subscriber はバスに登録された1つの購読。専用のワーカーgoroutineを持つ。
type subscriber struct {
	// name はログ出力用の購読者名。
	name string
	// eventType は購読するイベントの種類。
	eventType Type
	// handler はイベントを処理する関数。
	handler Handler
	// ch はワーカーへイベントを渡すキュー。
	ch chan *Event
}

// Bus はプロセス内のイベント配送を担う。
// 購読者ごとに専用のワーカーgoroutineとキューを持ち、ある購読者の
// ハンドラが失敗・遅延しても他の購読者の配送を妨げない。
// 発行側はキューへの追加以降をブロックせず、ハンドラの失敗も観測しない。
// 各購読者のキューは有界で、満杯の間は発行側をブロックして
// 逆圧をかける。イベントを黙って破棄することはない。
type Bus struct {
	// mu はsubsとclosedへの並行アクセスを保護するミューテックス。
	mu sync.Mutex
	// subs はイベント種類ごとの購読者リスト。
	subs map[Type][]*subscriber
	// wg は全ワーカーの終了を待ち合わせる。
	wg sync.WaitGroup
	// closed はCloseが呼ばれた後にtrueになる。
	closed bool
}

// NewBus は新しいイベントバスを生成する。
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Type][]*subscriber),
	}
}

// Subscribe は指定されたイベント種類に対するハンドラを登録し、
// 専用のワーカーgoroutineを起動する。nameはログ出力に使用する。
func (b *Bus) Subscribe(eventType Type, name string, h Handler) {
	s := &subscriber{
		name:      name,
		eventType: eventType,
		handler:   h,
		ch:        make(chan *Event, subscriberQueueSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		log.Printf("[EventBus] クローズ済みのバスへの購読登録を無視: subscriber=%s", name)
		return
	}
	b.subs[eventType] = append(b.subs[eventType], s)

	b.wg.Add(1)
	go b.run(s)
}

// Publish はイベントを対応する全購読者のキューに積む。
// 呼び出し元はハンドラの完了を待たない。購読者が存在しない種類の
// イベントは破棄される。購読者のキューが満杯の場合は空きが出るまで
// ブロックする（イベントは失われない）。
func (b *Bus) Publish(e *Event) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		log.Printf("[EventBus] クローズ済みのバスへの発行を無視: type=%s, event_id=%s", e.Type, e.ID)
		return
	}
	subs := b.subs[e.Type]
	b.mu.Unlock()

	for _, s := range subs {
		s.ch <- e
	}
}

// Close は全購読者のキューを閉じ、積まれたイベントの処理完了を待つ。
// Close後のPublishとSubscribeは無視される。
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, s := range subs {
			close(s.ch)
		}
	}
	b.mu.Unlock()

	b.wg.Wait()
}

// run は1つの購読者のワーカーループ。キューが閉じられるまでイベントを処理する。
func (b *Bus) run(s *subscriber) {
	defer b.wg.Done()
	for e := range s.ch {
		b.dispatch(s, e)
	}
}

// dispatch は1つのイベントをハンドラに渡す。
// パニックとエラーはここで握りつぶしてログに記録する。1つのイベントの
// 失敗が後続のイベントや他の購読者を道連れにしてはならない。
func (b *Bus) dispatch(s *subscriber, e *Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[EventBus] ハンドラがパニック: subscriber=%s, type=%s, event_id=%s: %v", s.name, e.Type, e.ID, r)
		}
	}()

	if err := s.handler(context.Background(), e); err != nil {
		log.Printf("[EventBus] イベント処理エラー: subscriber=%s, type=%s, event_id=%s: %v", s.name, e.Type, e.ID, err)
	}
}

// Buffer はトランザクション境界に合わせてイベントの発行を遅らせるための
// 一時バッファ。チケットの割り当て変更のように、変更が永続化される前に
// 通知が作られてはならないイベントに使用する。
//
// 発行側はトランザクション中にAddでイベントを積み、コミット成功後に
// Commitを、ロールバック時にDiscardを呼ぶ。ロールバックされた変更が
// 偽の通知を生むことはない。
type Buffer struct {
	// bus はCommit時の発行先バス。
	bus *Bus
	// mu はeventsへの並行アクセスを保護するミューテックス。
	mu sync.Mutex
	// events は発行待ちのイベント。
	events []*Event
}

// NewBuffer はこのバスに発行するトランザクション用バッファを生成する。
func (b *Bus) NewBuffer() *Buffer {
	return &Buffer{bus: b}
}

// Add はイベントを発行待ちとしてバッファに積む。この時点では発行されない。
func (buf *Buffer) Add(e *Event) {
	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.events = append(buf.events, e)
}

// Commit はバッファ内の全イベントを積まれた順にバスへ発行し、バッファを空にする。
// トランザクションのコミットが成功した後に呼ぶこと。
func (buf *Buffer) Commit() {
	buf.mu.Lock()
	events := buf.events
	buf.events = nil
	buf.mu.Unlock()

	for _, e := range events {
		buf.bus.Publish(e)
	}
}

// Discard はバッファ内の全イベントを発行せずに破棄する。
// トランザクションがロールバックされた場合に呼ぶこと。
func (buf *Buffer) Discard() {
	buf.mu.Lock()
	defer buf.mu.Unlock()
	buf.events = nil
}
