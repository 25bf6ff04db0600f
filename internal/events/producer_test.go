package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("writes successfully", func() {
			w := newTestWriter()
			kp := NewEventProducer(w)

			err := kp.Write(context.TODO(), JobTransitionedKind, bytes.NewReader([]byte(`{"msg":1}`)))
			Expect(err).To(BeNil())
			Eventually(w.Len).Should(Equal(1))
			Expect(w.At(0).Context.GetType()).To(Equal(JobTransitionedKind))
			Expect(w.At(0).Source()).To(Equal(defaultSource))

			err = kp.Write(context.TODO(), AppealReviewedKind, bytes.NewReader([]byte(`{"msg":2}`)))
			Expect(err).To(BeNil())
			Eventually(w.Len).Should(Equal(2))
			Expect(w.At(1).Context.GetType()).To(Equal(AppealReviewedKind))

			Expect(kp.Close()).To(Succeed())
			Expect(w.Closed()).To(BeTrue())
		})

		It("publishes a payload as json", func() {
			w := newTestWriter()
			kp := NewEventProducer(w, WithSource("test"), WithOutputTopic("topic"))

			jobID := uuid.New()
			err := kp.Publish(context.TODO(), ReportDismissedKind, ReportDismissedEvent{ReportID: jobID, Admin: "alice"})
			Expect(err).To(BeNil())
			Eventually(w.Len).Should(Equal(1))

			var got ReportDismissedEvent
			Expect(json.Unmarshal(w.At(0).Data(), &got)).To(Succeed())
			Expect(got.ReportID).To(Equal(jobID))
			Expect(got.Admin).To(Equal("alice"))
			Expect(w.At(0).Source()).To(Equal("test"))
			Expect(w.Topic(0)).To(Equal("topic"))

			Expect(kp.Close()).To(Succeed())
		})

		It("does not block the caller on a slow writer", func() {
			w := newTestWriter()
			w.block = make(chan struct{})
			kp := NewEventProducer(w)

			for i := 0; i < 100; i++ {
				Expect(kp.Write(context.TODO(), JobTransitionedKind, bytes.NewReader([]byte("{}")))).To(Succeed())
			}

			close(w.block)
			Eventually(w.Len).Should(Equal(100))
			Expect(kp.Close()).To(Succeed())
		})

		It("keeps going after a writer failure", func() {
			w := newTestWriter()
			w.failures = 1
			kp := NewEventProducer(w)

			Expect(kp.Write(context.TODO(), JobTransitionedKind, bytes.NewReader([]byte("{}")))).To(Succeed())
			Expect(kp.Write(context.TODO(), JobTransitionedKind, bytes.NewReader([]byte("{}")))).To(Succeed())

			Eventually(w.Len).Should(Equal(1))
			Expect(kp.Close()).To(Succeed())
		})

		It("refuses events after close", func() {
			kp := NewEventProducer(newTestWriter())
			Expect(kp.Close()).To(Succeed())

			err := kp.Write(context.TODO(), JobTransitionedKind, bytes.NewReader([]byte("{}")))
			Expect(err).To(MatchError(ErrProducerClosed))
		})
	})

	Context("fan out", func() {
		It("writes to every writer even when one fails", func() {
			ok := newTestWriter()
			failing := newTestWriter()
			failing.failures = 1
			fw := NewFanOutWriter(failing, ok)

			e := cloudevents.NewEvent()
			e.SetType(JobTransitionedKind)
			err := fw.Write(context.TODO(), "topic", e)
			Expect(err).NotTo(BeNil())
			Expect(ok.Len()).To(Equal(1))

			Expect(fw.Close(context.TODO())).To(Succeed())
			Expect(ok.Closed()).To(BeTrue())
			Expect(failing.Closed()).To(BeTrue())
		})
	})
})

type testwriter struct {
	lock     sync.Mutex
	messages []cloudevents.Event
	topics   []string
	closed   bool
	failures int
	block    chan struct{}
}

func newTestWriter() *testwriter {
	return &testwriter{messages: []cloudevents.Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	if t.block != nil {
		<-t.block
	}

	t.lock.Lock()
	defer t.lock.Unlock()
	if t.failures > 0 {
		t.failures--
		return errors.New("write failed")
	}
	t.messages = append(t.messages, e)
	t.topics = append(t.topics, topic)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.closed = true
	return nil
}

func (t *testwriter) Len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.messages)
}

func (t *testwriter) At(i int) cloudevents.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.messages[i]
}

func (t *testwriter) Topic(i int) string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.topics[i]
}

func (t *testwriter) Closed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.closed
}
