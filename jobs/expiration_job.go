package jobs

import (
	"context"
	"log"
	"time"

	"quickfix-server/store"
)

// CouponExpiryJob periodically deactivates coupons whose validity window has
// passed, so expired codes stop showing up in admin listings.
type CouponExpiryJob struct {
	coupons  store.CouponStore
	interval time.Duration
	stopChan chan bool
}

// NewCouponExpiryJob creates a new coupon expiry job
func NewCouponExpiryJob(coupons store.CouponStore) *CouponExpiryJob {
	return &CouponExpiryJob{
		coupons:  coupons,
		interval: 30 * time.Second,
		stopChan: make(chan bool),
	}
}

// Start begins the expiry job
func (j *CouponExpiryJob) Start() {
	go j.run()
	log.Println("🚀 Coupon expiry job started")
}

// Stop stops the expiry job
func (j *CouponExpiryJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Coupon expiry job stopped")
}

func (j *CouponExpiryJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.sweep()
		case <-j.stopChan:
			return
		}
	}
}

// sweep finds active coupons past their validity and deactivates them.
func (j *CouponExpiryJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	coupons, err := j.coupons.List(ctx)
	if err != nil {
		log.Printf("❌ Error checking expired coupons: %v", err)
		return
	}

	now := time.Now()
	expired := 0
	for i := range coupons {
		coupon := coupons[i]
		if !coupon.IsActive || !coupon.IsExpired(now) {
			continue
		}
		coupon.IsActive = false
		if err := j.coupons.Update(ctx, &coupon); err != nil {
			log.Printf("❌ Failed to deactivate coupon %s: %v", coupon.Code, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		log.Printf("⏰ Deactivated %d expired coupons", expired)
	}
}
